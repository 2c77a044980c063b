// Package order covers checkout and order history. An order's line items
// freeze the unit price at creation time (price_at_time); historic totals are
// immutable no matter what happens to product prices afterwards.
package order

import (
	"context"
	"fmt"
	"time"

	"vitrine/internal/api"
	"vitrine/internal/catalog"
)

// Status is the order lifecycle state. The progression is linear
// (pending → paid → shipped → delivered) with cancelled reachable from any
// non-terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every valid status in progression order.
var Statuses = []Status{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusPaid
	case StatusPaid:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// Item is one order line. PriceAtTime is the unit price frozen at order
// creation, decoupling history from later catalog edits.
type Item struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime float64         `json:"price_at_time"`
	Product     catalog.Product `json:"product"`
}

// Order is a placed order with its frozen lines.
type Order struct {
	ID              int       `json:"id"`
	Total           float64   `json:"total"`
	Status          Status    `json:"status"`
	ShippingAddress string    `json:"shipping_address"`
	CreatedAt       time.Time `json:"created_at"`
	Items           []Item    `json:"items"`
}

// Service exposes the customer-facing order operations.
type Service struct {
	client *api.Client
}

// NewService wraps the API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Create places an order from the server-side cart. The server freezes unit
// prices, decrements stock and empties the cart; callers reset their local
// cart mirror afterwards.
func (s *Service) Create(ctx context.Context, shippingAddress string) (*Order, error) {
	if shippingAddress == "" {
		return nil, fmt.Errorf("order: shipping address required")
	}
	var o Order
	body := map[string]string{"shipping_address": shippingAddress}
	if err := s.client.Post(ctx, "/orders/", body, &o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &o, nil
}

// List returns the current user's orders, most recent first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.client.Get(ctx, "/orders/", nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the current user's orders by ID.
func (s *Service) Get(ctx context.Context, id int) (*Order, error) {
	var o Order
	if err := s.client.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &o); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}
