package cart

import "storefront/internal/schema"

// MaxQuantity is the per-item ceiling.
const MaxQuantity = schema.MaxQuantity

// Action is a cart mutation.
type Action interface {
	action()
}

type AddItem struct {
	Product schema.Product
}

type RemoveItem struct {
	ProductID string
}

type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type DecreaseQuantity struct {
	ProductID string
}

type ClearCart struct{}

// RestoreCart replaces the cart with Items, e.g. after a reload.
type RestoreCart struct {
	Items []Item
}

func (AddItem) action()          {}
func (RemoveItem) action()       {}
func (UpdateQuantity) action()   {}
func (DecreaseQuantity) action() {}
func (ClearCart) action()        {}
func (RestoreCart) action()      {}

// Reduce applies a to s and returns the new state. s is not modified.
// Unknown actions return s with its totals re-derived.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a := a.(type) {
	case AddItem:
		if i := next.index(a.Product.ID); i >= 0 {
			if next.Items[i].Quantity < MaxQuantity {
				next.Items[i].Quantity++
			}
		} else {
			next.Items = append(next.Items, Item{Product: a.Product, Quantity: 1})
		}

	case RemoveItem:
		next.Items = without(next.Items, a.ProductID)

	case UpdateQuantity:
		i := next.index(a.ProductID)
		switch {
		case i < 0:
		case a.Quantity <= 0:
			next.Items = without(next.Items, a.ProductID)
		default:
			next.Items[i].Quantity = min(a.Quantity, MaxQuantity)
		}

	case DecreaseQuantity:
		if i := next.index(a.ProductID); i >= 0 {
			next.Items[i].Quantity--
			if next.Items[i].Quantity <= 0 {
				next.Items = without(next.Items, a.ProductID)
			}
		}

	case ClearCart:
		return Empty()

	case RestoreCart:
		next.Items = restore(a.Items)
	}

	return recalculate(next)
}

func without(items []Item, productID string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.Product.ID != productID {
			out = append(out, it)
		}
	}
	return out
}

// restore merges duplicate products, drops non-positive quantities and
// clamps to MaxQuantity. First occurrence order is kept.
func restore(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 || it.Product.ID == "" {
			continue
		}
		if i, ok := seen[it.Product.ID]; ok {
			out[i].Quantity = min(out[i].Quantity+it.Quantity, MaxQuantity)
			continue
		}
		seen[it.Product.ID] = len(out)
		it.Quantity = min(it.Quantity, MaxQuantity)
		out = append(out, it)
	}
	return out
}
