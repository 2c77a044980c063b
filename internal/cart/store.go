// Package cart mirrors the server-side cart. The server owns all pricing:
// after every mutation the store refetches the whole cart instead of patching
// locally, so the total can never drift from server-side pricing rules, even
// with two clients mutating the same cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"vitrine/internal/api"
	"vitrine/internal/catalog"
)

// ErrQuantityTooLow is returned before any network I/O when a quantity below
// one is requested. Removal is an explicit operation, never a quantity-zero
// side effect.
var ErrQuantityTooLow = errors.New("cart: quantity must be at least 1")

// Item is one line of the cart.
type Item struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   catalog.Product `json:"product"`
}

// Cart is the server's view of the current cart.
type Cart struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

// Store is the process-wide cart state. State changes only on successful
// server responses; every error propagates to the caller untouched.
type Store struct {
	client *api.Client
	logger *zap.Logger

	mu      sync.RWMutex
	items   []Item
	total   float64
	loading bool
}

// NewStore builds an empty store. logger may be nil.
func NewStore(client *api.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger.Named("cart")}
}

// Items returns a copy of the current line items.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Total returns the last server-reported total. The client never recomputes
// it from item prices.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Fetch replaces items and total wholesale from the server. On failure the
// previous state is left untouched: a stale cart beats a blanked one on a
// transient error.
func (s *Store) Fetch(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var c Cart
	if err := s.client.Get(ctx, "/cart/", nil, &c); err != nil {
		return fmt.Errorf("fetch cart: %w", err)
	}

	s.mu.Lock()
	s.items = c.Items
	s.total = c.Total
	s.mu.Unlock()
	return nil
}

// Add posts a new line (the server decides whether to increment an existing
// one) then resynchronizes with a full refetch.
func (s *Store) Add(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	body := map[string]int{"product_id": productID, "quantity": quantity}
	if err := s.client.Post(ctx, "/cart/items", body, nil); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	s.logger.Debug("item added", zap.Int("product_id", productID), zap.Int("quantity", quantity))
	return s.Fetch(ctx)
}

// Update changes a line's quantity then resynchronizes. Quantities below one
// are rejected before the request fires.
func (s *Store) Update(ctx context.Context, itemID, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}
	body := map[string]int{"quantity": quantity}
	if err := s.client.Patch(ctx, fmt.Sprintf("/cart/items/%d", itemID), body, nil); err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return s.Fetch(ctx)
}

// Remove deletes a line then resynchronizes.
func (s *Store) Remove(ctx context.Context, itemID int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/cart/items/%d", itemID), nil); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return s.Fetch(ctx)
}

// Clear empties the cart server-side then resets locally without a refetch:
// the post-condition is known.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Delete(ctx, "/cart/", nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.mu.Lock()
	s.items = nil
	s.total = 0
	s.mu.Unlock()
	return nil
}

// Reset drops local state without touching the server. Used after checkout,
// where the server has already emptied the cart.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.total = 0
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
