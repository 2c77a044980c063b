// Package admin is the back-office client: aggregate stats, product and
// category management, and order status updates. Every operation requires an
// admin session; the server enforces it, the client just surfaces the 403.
package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitrine/internal/api"
	"vitrine/internal/catalog"
	"vitrine/internal/order"
)

// Stats are the dashboard aggregates.
type Stats struct {
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalUsers    int     `json:"total_users"`
	TotalProducts int     `json:"total_products"`
}

// ProductInput is the create/update payload for a product. Pointer fields are
// omitted when nil so partial updates only touch what the caller set.
type ProductInput struct {
	Name        string   `json:"name,omitempty" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Price       *float64 `json:"price,omitempty" yaml:"price"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url"`
	Stock       *int     `json:"stock,omitempty" yaml:"stock"`
	IsActive    *bool    `json:"is_active,omitempty" yaml:"is_active"`
	CategoryID  *int     `json:"category_id,omitempty" yaml:"category_id"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Service exposes the admin operations.
type Service struct {
	client *api.Client
	logger *zap.Logger
}

// NewService wraps the API client. logger may be nil.
func NewService(client *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger.Named("admin")}
}

// GetStats fetches the dashboard aggregates.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := s.client.Get(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}

// CreateProduct creates a product; the server derives the slug from the name.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*catalog.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("admin: product name required")
	}
	var p catalog.Product
	if err := s.client.Post(ctx, "/admin/products", input, &p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.Int("id", p.ID), zap.String("slug", p.Slug))
	return &p, nil
}

// UpdateProduct applies a partial update to a product by ID.
func (s *Service) UpdateProduct(ctx context.Context, id int, input ProductInput) (*catalog.Product, error) {
	var p catalog.Product
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/products/%d", id), input, &p); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &p, nil
}

// DeleteProduct removes a product by ID.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/products/%d", id), nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info("product deleted", zap.Int("id", id))
	return nil
}

// CreateCategory creates a category.
func (s *Service) CreateCategory(ctx context.Context, input CategoryInput) (*catalog.Category, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("admin: category name required")
	}
	var c catalog.Category
	if err := s.client.Post(ctx, "/admin/categories", input, &c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// UpdateCategory renames a category by ID.
func (s *Service) UpdateCategory(ctx context.Context, id int, input CategoryInput) (*catalog.Category, error) {
	var c catalog.Category
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/categories/%d", id), input, &c); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return &c, nil
}

// DeleteCategory removes a category by ID.
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/admin/categories/%d", id), nil); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// ListOrders returns every order in the shop, most recent first.
func (s *Service) ListOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := s.client.Get(ctx, "/admin/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("admin orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to the given status. The transition is
// validated against the current status before the request is sent, so an
// impossible move never reaches the server.
func (s *Service) UpdateOrderStatus(ctx context.Context, o order.Order, next order.Status) (*order.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("admin: unknown status %q", next)
	}
	if !o.Status.CanTransition(next) {
		return nil, fmt.Errorf("admin: order %d cannot move from %s to %s", o.ID, o.Status, next)
	}

	var updated order.Order
	body := map[string]string{"status": string(next)}
	if err := s.client.Patch(ctx, fmt.Sprintf("/admin/orders/%d/status", o.ID), body, &updated); err != nil {
		return nil, fmt.Errorf("update order %d status: %w", o.ID, err)
	}
	s.logger.Info("order status updated",
		zap.Int("order_id", o.ID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(next)))
	return &updated, nil
}
