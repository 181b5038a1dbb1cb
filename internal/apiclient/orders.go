package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/schema"
)

const ordersEndpoint = "/orders"

func (c *Client) CreateOrder(ctx context.Context, in schema.CreateOrder, token string) (schema.Message, error) {
	if err := in.Validate(); err != nil {
		return schema.Message{}, validationError(ordersEndpoint, err)
	}

	return Request(ctx, c, Call{
		Method:   http.MethodPost,
		Endpoint: ordersEndpoint,
		Body:     in,
		Token:    token,
	}, schema.ParseMessage)
}

// Orders lists every order. Admin only.
func (c *Client) Orders(ctx context.Context, token string, policy CachePolicy) ([]schema.Order, error) {
	return Request(ctx, c, Call{
		Method:   http.MethodGet,
		Endpoint: ordersEndpoint,
		Token:    token,
		Cache:    policy,
	}, schema.ParseOrders)
}

// MarkDelivered flags an order as delivered and drops the caller's cached
// order listing so the change shows up at once.
func (c *Client) MarkDelivered(ctx context.Context, orderID, token string) (schema.Message, error) {
	msg, err := Request(ctx, c, Call{
		Method:   http.MethodPut,
		Endpoint: "/orders/mark-delivered/" + url.PathEscape(orderID),
		Token:    token,
	}, schema.ParseMessage)
	if err != nil {
		return schema.Message{}, err
	}

	_ = c.Invalidate(ctx, ordersEndpoint, token)
	return msg, nil
}
