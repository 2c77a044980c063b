package catalog

import (
	"context"
	"fmt"

	"vitrine/internal/api"
)

// Service exposes the catalog read operations. It owns no state; every call
// goes straight to the backend.
type Service struct {
	client *api.Client
}

// NewService wraps the API client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// ListProducts fetches one page of the filtered product listing.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (*ProductList, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	var list ProductList
	if err := s.client.Get(ctx, "/products", params.Values(), &list); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &list, nil
}

// GetProduct fetches a single product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (*Product, error) {
	if slug == "" {
		return nil, fmt.Errorf("catalog: product slug required")
	}
	var p Product
	if err := s.client.Get(ctx, "/products/"+slug, nil, &p); err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	return &p, nil
}

// ListCategories fetches the category reference data.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := s.client.Get(ctx, "/categories", nil, &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
