package cart

import (
	"sync"

	"storefront/internal/logger"
	"storefront/internal/schema"

	"go.uber.org/zap"
)

// Store holds the cart for one session. Every method applies a single
// Reduce step under the lock, so mutations land in call order.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: Empty()}
}

func (s *Store) dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state.clone()
}

// AddItem adds one unit of p. At MaxQuantity it is a no-op.
func (s *Store) AddItem(p schema.Product) State {
	return s.dispatch(AddItem{Product: p})
}

func (s *Store) RemoveItem(productID string) State {
	return s.dispatch(RemoveItem{ProductID: productID})
}

// UpdateQuantity sets the quantity of productID. Zero or less removes the
// item, anything above MaxQuantity is clamped.
func (s *Store) UpdateQuantity(productID string, quantity int) State {
	return s.dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) DecreaseQuantity(productID string) State {
	return s.dispatch(DecreaseQuantity{ProductID: productID})
}

func (s *Store) ClearCart() State {
	st := s.dispatch(ClearCart{})
	logger.L().Debug("cart cleared", zap.String("layer", "cart"))
	return st
}

// Restore replaces the cart contents with items.
func (s *Store) Restore(items []Item) State {
	st := s.dispatch(RestoreCart{Items: items})
	logger.L().Debug("cart restored",
		zap.String("layer", "cart"),
		zap.Int("items", len(st.Items)),
		zap.Int("total_items", st.TotalItems),
	)
	return st
}

func (s *Store) ItemQuantity(productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Quantity(productID)
}

// CanIncrease reports whether one more unit of productID fits under
// MaxQuantity.
func (s *Store) CanIncrease(productID string) bool {
	return s.ItemQuantity(productID) < MaxQuantity
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
