package schema

import "github.com/shopspring/decimal"

type OrderProduct struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

type Owner struct {
	ID       string `json:"_id" validate:"required"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

type Order struct {
	ID        string          `json:"_id" validate:"required"`
	Owner     Owner           `json:"owner"`
	Products  []OrderProduct  `json:"products" validate:"dive"`
	Price     decimal.Decimal `json:"price"`
	Delivered bool            `json:"delivered"`
	Address   string          `json:"address"`
}

// CreateOrder is the body of POST /orders.
type CreateOrder struct {
	Products []OrderProduct  `json:"products" validate:"min=1,dive"`
	Address  string          `json:"address"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
}

var orderMessages = messages{
	"quantity.min": "quantity must be at least 1",
}

var createOrderMessages = messages{
	"products.min":     "order must contain at least one product",
	"product.required": "product id is required",
	"quantity.min":     "quantity must be at least 1",
	"price.gt":         "order total must be positive",
}

func ParseOrder(raw []byte) (Order, error) {
	var o Order
	if err := decodeObject(raw, &o, "_id", "owner", "products", "price", "delivered", "address"); err != nil {
		return Order{}, err
	}
	if err := check(o, orderMessages); err != nil {
		return Order{}, err
	}
	return o, nil
}

func ParseOrders(raw []byte) ([]Order, error) {
	return decodeList(raw, ParseOrder)
}

func (c CreateOrder) Validate() error {
	return check(c, createOrderMessages)
}

// ParseCreateOrder is used by anything receiving an order submission.
func ParseCreateOrder(raw []byte) (CreateOrder, error) {
	var c CreateOrder
	if err := decodeObject(raw, &c, "products", "address", "price"); err != nil {
		return CreateOrder{}, err
	}
	if err := c.Validate(); err != nil {
		return CreateOrder{}, err
	}
	return c, nil
}
