package checkout

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/schema"

	"go.uber.org/zap"
)

// OrderSubmitter sends an order creation request to the remote service.
type OrderSubmitter interface {
	CreateOrder(ctx context.Context, in schema.CreateOrder, token string) (schema.Message, error)
}

// CartClearer empties the cart once the order is accepted.
type CartClearer interface {
	ClearCart() cart.State
}

type Result struct {
	Message string
	Order   schema.CreateOrder
}

type Service struct {
	api  OrderSubmitter
	cart CartClearer
}

func NewService(api OrderSubmitter, c CartClearer) *Service {
	return &Service{api: api, cart: c}
}

// SubmitOrder validates the shipping form, submits the cart as an order and
// clears the cart on success. On any failure the cart is left as is and the
// returned error carries the message to show.
func (s *Service) SubmitOrder(ctx context.Context, fields schema.Shipping, st cart.State, token string) (Result, error) {
	log := logger.ForLayer(ctx, "checkout", "SubmitOrder")

	if err := fields.Validate(); err != nil {
		log.Debug("shipping form rejected", zap.Error(err))
		return Result{}, err
	}
	if token == "" {
		log.Info("checkout without session")
		return Result{}, ErrSessionExpired
	}
	if st.IsEmpty() {
		return Result{}, ErrCartEmpty
	}

	order := BuildOrder(fields, st)

	msg, err := s.api.CreateOrder(ctx, order, token)
	if err != nil {
		log.Warn("order submission failed",
			zap.Int("items", st.TotalItems),
			zap.Error(err),
		)
		return Result{}, err
	}

	s.cart.ClearCart()

	log.Info("order placed",
		zap.Int("products", len(order.Products)),
		zap.String("price", order.Price.StringFixed(2)),
		zap.String("server_message", msg.Message),
	)
	return Result{Message: MsgOrderPlaced, Order: order}, nil
}

// BuildOrder turns the cart and shipping form into the creation payload.
func BuildOrder(fields schema.Shipping, st cart.State) schema.CreateOrder {
	products := make([]schema.OrderProduct, 0, len(st.Items))
	for _, it := range st.Items {
		products = append(products, schema.OrderProduct{
			Product:  it.Product.ID,
			Quantity: it.Quantity,
		})
	}

	return schema.CreateOrder{
		Products: products,
		Address:  fields.Address(),
		Price:    st.TotalPrice,
	}
}
