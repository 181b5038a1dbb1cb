package cart

import (
	"storefront/internal/schema"

	"github.com/shopspring/decimal"
)

// Item is one line of the cart. Quantity is always at least 1 while the
// item is in State.Items.
type Item struct {
	Product  schema.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Subtotal is price × quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is the cart. TotalItems and TotalPrice are derived from Items and
// recomputed by every transition.
type State struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Empty returns a cart with no items.
func Empty() State {
	return State{Items: []Item{}, TotalPrice: decimal.Zero}
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// Quantity returns the quantity held for productID, or 0.
func (s State) Quantity(productID string) int {
	if i := s.index(productID); i >= 0 {
		return s.Items[i].Quantity
	}
	return 0
}

func (s State) index(productID string) int {
	for i, it := range s.Items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

func recalculate(s State) State {
	s.TotalItems = 0
	s.TotalPrice = decimal.Zero
	for _, it := range s.Items {
		s.TotalItems += it.Quantity
		s.TotalPrice = s.TotalPrice.Add(it.Subtotal())
	}
	return s
}
