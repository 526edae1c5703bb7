package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-tools/catalog-explorer/internal/api/handlers"
	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	"github.com/storefront-tools/catalog-explorer/internal/engine"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// fakeCatalog is a scriptable bestbuy.Client for handler tests.
type fakeCatalog struct {
	searchFn     func(req bestbuy.SearchRequest) (*bestbuy.Page, error)
	lookupFn     func(skus []string) (*bestbuy.Page, error)
	categoriesFn func() ([]domain.Category, error)
}

func (f *fakeCatalog) Search(_ context.Context, req bestbuy.SearchRequest) (*bestbuy.Page, error) {
	return f.searchFn(req)
}

func (f *fakeCatalog) LookupSKUs(_ context.Context, skus []string) (*bestbuy.Page, error) {
	return f.lookupFn(skus)
}

func (f *fakeCatalog) Categories(context.Context) ([]domain.Category, error) {
	return f.categoriesFn()
}

func singlePage(skus ...string) *bestbuy.Page {
	p := &bestbuy.Page{CurrentPage: 1, TotalPages: 1}
	for _, sku := range skus {
		p.Items = append(p.Items, bestbuy.Item{
			Product: bestbuy.Product{SKU: bestbuy.SKU(sku), Name: "Item " + sku},
		})
	}
	return p
}

func newQueryAPI(t *testing.T, catalog bestbuy.Client) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	eng := engine.New(catalog,
		engine.WithMaxAttempts(1),
		engine.WithBackoffBase(time.Microsecond),
	)
	handlers.RegisterQueryRoutes(api, handlers.NewQueryHandler(eng))
	return api
}

func TestQuery_Keyword(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		searchFn: func(req bestbuy.SearchRequest) (*bestbuy.Page, error) {
			return singlePage("100", "200"), nil
		},
	}
	api := newQueryAPI(t, catalog)

	resp := api.Post("/api/v1/query", map[string]any{
		"mode":    "keyword",
		"keyword": "laptop",
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Records      []domain.ProductRecord `json:"records"`
		PagesFetched int                    `json:"pages_fetched"`
		Incomplete   *domain.IncompleteInfo `json:"incomplete"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Records, 2)
	assert.Equal(t, "100", body.Records[0].SKU)
	assert.Equal(t, 1, body.PagesFetched)
	assert.Nil(t, body.Incomplete)
}

func TestQuery_SKUUnmatched(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		lookupFn: func(skus []string) (*bestbuy.Page, error) {
			return singlePage("1001"), nil
		},
	}
	api := newQueryAPI(t, catalog)

	resp := api.Post("/api/v1/query", map[string]any{
		"mode": "sku",
		"skus": []string{"1001", "9999"},
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Records       []domain.ProductRecord `json:"records"`
		UnmatchedSKUs int                    `json:"unmatched_skus"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Records, 1)
	assert.Equal(t, 1, body.UnmatchedSKUs)
}

func TestQuery_PartialResult(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		searchFn: func(req bestbuy.SearchRequest) (*bestbuy.Page, error) {
			if req.Page == 1 {
				return &bestbuy.Page{
					Items:       singlePage("1").Items,
					CurrentPage: 1,
					TotalPages:  2,
				}, nil
			}
			return nil, &bestbuy.APIError{StatusCode: 500, Body: "boom"}
		},
	}
	api := newQueryAPI(t, catalog)

	resp := api.Post("/api/v1/query", map[string]any{
		"mode":    "keyword",
		"keyword": "flaky",
	})

	// Partial coverage is still a success response.
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Records    []domain.ProductRecord `json:"records"`
		Incomplete *domain.IncompleteInfo `json:"incomplete"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Records, 1)
	require.NotNil(t, body.Incomplete)
	assert.Equal(t, 2, body.Incomplete.Page)
}

func TestQuery_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     map[string]any
		err      error
		wantCode int
	}{
		{
			name:     "invalid request",
			body:     map[string]any{"mode": "keyword", "keyword": "  "},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rejected credential",
			body:     map[string]any{"mode": "keyword", "keyword": "x"},
			err:      fmt.Errorf("%w (status 403)", domain.ErrAuthentication),
			wantCode: http.StatusBadGateway,
		},
		{
			name:     "provider down",
			body:     map[string]any{"mode": "keyword", "keyword": "x"},
			err:      &bestbuy.APIError{StatusCode: 503, Body: "down"},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := &fakeCatalog{
				searchFn: func(bestbuy.SearchRequest) (*bestbuy.Page, error) {
					return nil, tt.err
				},
			}
			api := newQueryAPI(t, catalog)

			resp := api.Post("/api/v1/query", tt.body)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		categoriesFn: func() ([]domain.Category, error) {
			return []domain.Category{
				{ID: "abcat0100000", Name: "TV & Home Theater"},
				{ID: "abcat0200000", Name: "Audio"},
			}, nil
		},
	}

	_, api := humatest.New(t)
	handlers.RegisterCategoriesRoutes(api, handlers.NewCategoriesHandler(catalog))

	resp := api.Get("/api/v1/categories")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Categories []domain.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "abcat0100000", body.Categories[0].ID)
}

func TestCategories_ProviderError(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		categoriesFn: func() ([]domain.Category, error) {
			return nil, &bestbuy.APIError{StatusCode: 500, Body: "oops"}
		},
	}

	_, api := humatest.New(t)
	handlers.RegisterCategoriesRoutes(api, handlers.NewCategoriesHandler(catalog))

	resp := api.Get("/api/v1/categories")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}
