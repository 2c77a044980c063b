package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Listing limits. The server clamps as well; validating here keeps bad
// parameters from ever leaving the process.
const (
	DefaultLimit = 12
	MaxLimit     = 100
)

// ListParams is the typed filter/sort configuration for product listings.
// The zero value is not valid; start from DefaultListParams.
type ListParams struct {
	Page     int
	Limit    int
	Category string // category slug, "" for all
	Search   string // free-text name search, "" for none
}

// DefaultListParams returns the first page with the default page size.
func DefaultListParams() ListParams {
	return ListParams{Page: 1, Limit: DefaultLimit}
}

// Validate checks the parameters at the boundary, before a request is built.
func (p ListParams) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("catalog: page must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("catalog: limit must be in [1,%d], got %d", MaxLimit, p.Limit)
	}
	return nil
}

// Values encodes the parameters as a query string. Empty filters are omitted
// entirely rather than sent as empty values.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	return q
}

// WithPage returns a copy targeting the given page.
func (p ListParams) WithPage(page int) ListParams {
	p.Page = page
	return p
}

// WithCategory returns a copy filtered to the given category slug, reset to
// the first page since the result set changes wholesale.
func (p ListParams) WithCategory(slug string) ListParams {
	p.Category = slug
	p.Page = 1
	return p
}

// WithSearch returns a copy with the given search term, reset to page one.
func (p ListParams) WithSearch(term string) ListParams {
	p.Search = term
	p.Page = 1
	return p
}
