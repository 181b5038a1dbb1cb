package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/schema"
)

func productsEndpoint(search string) string {
	if search == "" {
		return "/products"
	}
	return "/products?search=" + url.QueryEscape(search)
}

// Products lists the catalog, optionally filtered. The search term is
// trimmed and validated before anything is sent.
func (c *Client) Products(ctx context.Context, search string, policy CachePolicy) ([]schema.Product, error) {
	q, err := schema.NormalizeSearch(search)
	if err != nil {
		return nil, validationError("/products", err)
	}

	return Request(ctx, c, Call{
		Method:   http.MethodGet,
		Endpoint: productsEndpoint(q),
		Cache:    policy,
	}, schema.ParseProducts)
}

func (c *Client) Product(ctx context.Context, id string, policy CachePolicy) (schema.Product, error) {
	return Request(ctx, c, Call{
		Method:   http.MethodGet,
		Endpoint: "/products/" + url.PathEscape(id),
		Cache:    policy,
	}, schema.ParseProduct)
}

// InitializeDB asks a development backend to seed its catalog.
func (c *Client) InitializeDB(ctx context.Context) (schema.Message, error) {
	return Request(ctx, c, Call{
		Method:   http.MethodPost,
		Endpoint: "/create-db",
	}, schema.ParseMessage)
}
