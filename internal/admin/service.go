package admin

import (
	"context"
	"errors"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/logger"
	"storefront/internal/schema"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("unauthorized")

// OrdersAPI is the part of the API client the admin view uses.
type OrdersAPI interface {
	Orders(ctx context.Context, token string, policy apiclient.CachePolicy) ([]schema.Order, error)
	MarkDelivered(ctx context.Context, orderID, token string) (schema.Message, error)
}

type Service struct {
	api OrdersAPI
	ttl time.Duration
}

// NewService builds the admin service. A ttl of zero or less disables
// caching of the order listing.
func NewService(api OrdersAPI, ttl time.Duration) *Service {
	return &Service{api: api, ttl: ttl}
}

func (s *Service) policy() apiclient.CachePolicy {
	if s.ttl <= 0 {
		return apiclient.NoCache()
	}
	return apiclient.ServerCache(s.ttl)
}

// ListOrders returns every order, served from cache for the configured TTL
// per token.
func (s *Service) ListOrders(ctx context.Context, token string) ([]schema.Order, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	orders, err := s.api.Orders(ctx, token, s.policy())
	if err != nil {
		logger.ForLayer(ctx, "admin", "ListOrders").Warn("list orders failed", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// MarkDelivered flags orderID as delivered. Marking an order twice is
// harmless.
func (s *Service) MarkDelivered(ctx context.Context, token, orderID string) (schema.Message, error) {
	if token == "" {
		return schema.Message{}, ErrUnauthorized
	}

	log := logger.ForLayer(ctx, "admin", "MarkDelivered").With(zap.String("order_id", orderID))

	msg, err := s.api.MarkDelivered(ctx, orderID, token)
	if err != nil {
		log.Warn("mark delivered failed", zap.Error(err))
		return schema.Message{}, err
	}

	log.Info("order marked delivered")
	return msg, nil
}

type Summary struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Delivered int             `json:"delivered"`
	Revenue   decimal.Decimal `json:"revenue"`
	// PendingRevenue is the part of Revenue not yet delivered.
	PendingRevenue decimal.Decimal `json:"pendingRevenue"`
}

func Summarize(orders []schema.Order) Summary {
	sum := Summary{
		Total:          len(orders),
		Revenue:        decimal.Zero,
		PendingRevenue: decimal.Zero,
	}
	for _, o := range orders {
		sum.Revenue = sum.Revenue.Add(o.Price)
		if o.Delivered {
			sum.Delivered++
			continue
		}
		sum.Pending++
		sum.PendingRevenue = sum.PendingRevenue.Add(o.Price)
	}
	return sum
}

// Summary lists the orders and aggregates them.
func (s *Service) Summary(ctx context.Context, token string) (Summary, error) {
	orders, err := s.ListOrders(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(orders), nil
}

// Pending returns the orders not yet delivered, in listing order.
func Pending(orders []schema.Order) []schema.Order {
	out := make([]schema.Order, 0, len(orders))
	for _, o := range orders {
		if !o.Delivered {
			out = append(out, o)
		}
	}
	return out
}
