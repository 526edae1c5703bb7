// Package bestbuy provides a Best Buy products API client abstracted behind
// interfaces for testability.
package bestbuy

import (
	"context"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// SearchRequest defines the parameters for a paginated product search.
// Query and CategoryID are mutually exclusive; Page is 1-based.
type SearchRequest struct {
	Query      string
	CategoryID string
	Page       int
	PageSize   int
}

// Page holds one page of product results.
type Page struct {
	Items       []Item
	Total       int
	CurrentPage int
	TotalPages  int
}

// HasMore reports whether the provider has pages beyond this one.
func (p *Page) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// Client defines the interface for interacting with the catalog API.
type Client interface {
	// Search fetches one page of keyword or category results.
	Search(ctx context.Context, req SearchRequest) (*Page, error)

	// LookupSKUs fetches products for an explicit SKU list. The provider
	// returns only the SKUs it recognizes; callers compare against the
	// request to count unmatched SKUs.
	LookupSKUs(ctx context.Context, skus []string) (*Page, error)

	// Categories fetches the provider category tree for the browse picker.
	Categories(ctx context.Context) ([]domain.Category, error)
}

// KeyProvider defines the interface for obtaining the provider API key.
// The engine treats the credential as opaque.
type KeyProvider interface {
	Key(ctx context.Context) (string, error)
}

// StaticKey is a KeyProvider backed by a fixed API key.
type StaticKey string

// Key implements KeyProvider.
func (k StaticKey) Key(context.Context) (string, error) {
	return string(k), nil
}
