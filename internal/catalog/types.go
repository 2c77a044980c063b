// Package catalog holds the storefront's read-side domain model: products,
// categories and the paginated listings the browse pages consume. Products
// are created and edited only through the admin operations; everything here
// treats them as read-only server data.
package catalog

// Product is a sellable item. Slug is the stable external identifier used in
// URLs and detail lookups; ID is internal to the backend.
type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	Stock        int     `json:"stock"`
	IsActive     bool    `json:"is_active"`
	CategoryID   *int    `json:"category_id"`
	CategoryName string  `json:"category_name"`
}

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool { return p.Stock > 0 }

// Category is read-only reference data used for filtering.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductList is one page of a filtered product listing, with the server's
// pagination bookkeeping.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
