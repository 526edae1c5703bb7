package bestbuy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

const pageJSON = `{
	"from": 1,
	"to": 2,
	"total": 5,
	"currentPage": 1,
	"totalPages": 3,
	"products": [
		{"sku": 1001, "name": "Item 1", "regularPrice": 10.00},
		{"sku": 1002, "name": "Item 2", "regularPrice": 20.00, "salePrice": 15.00}
	]
}`

func newTestClient(handler http.HandlerFunc) (*bestbuy.HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := bestbuy.NewHTTPClient(
		bestbuy.StaticKey("test-key"),
		bestbuy.WithBaseURL(srv.URL),
	)
	return client, srv
}

func TestHTTPClient_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        bestbuy.SearchRequest
		handler    http.HandlerFunc
		wantErr    bool
		errCheck   func(t *testing.T, err error)
		wantItems  int
		wantMore   bool
		wantPages  int
	}{
		{
			name: "keyword search builds provider query",
			req:  bestbuy.SearchRequest{Query: "wireless headphones", Page: 2, PageSize: 10},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "((search=wireless headphones))")
				assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.NotEmpty(t, r.URL.Query().Get("show"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(pageJSON))
			},
			wantItems: 2,
			wantMore:  true,
			wantPages: 3,
		},
		{
			name: "category browse builds provider query",
			req:  bestbuy.SearchRequest{CategoryID: "abcat0502000", Page: 1},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "((categoryPath.id=abcat0502000))")

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(pageJSON))
			},
			wantItems: 2,
			wantMore:  true,
			wantPages: 3,
		},
		{
			name: "empty results",
			req:  bestbuy.SearchRequest{Query: "nonexistent item xyz"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"total": 0, "currentPage": 1, "totalPages": 0, "products": []}`))
			},
			wantItems: 0,
			wantMore:  false,
		},
		{
			name: "403 forbidden maps to authentication error",
			req:  bestbuy.SearchRequest{Query: "test"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`Invalid API key`))
			},
			wantErr: true,
			errCheck: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, domain.ErrAuthentication)
				assert.False(t, bestbuy.Retryable(err))
			},
		},
		{
			name: "429 carries retry-after and is retryable",
			req:  bestbuy.SearchRequest{Query: "test"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`Over quota`))
			},
			wantErr: true,
			errCheck: func(t *testing.T, err error) {
				t.Helper()
				var apiErr *bestbuy.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.True(t, apiErr.RateLimited())
				assert.True(t, bestbuy.Retryable(err))
				assert.Equal(t, 7*time.Second, bestbuy.RetryAfter(err))
			},
		},
		{
			name: "500 server error is retryable",
			req:  bestbuy.SearchRequest{Query: "test"},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
			errCheck: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, bestbuy.Retryable(err))
				assert.Zero(t, bestbuy.RetryAfter(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, srv := newTestClient(tt.handler)
			defer srv.Close()

			page, err := client.Search(context.Background(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errCheck != nil {
					tt.errCheck(t, err)
				}
				return
			}

			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantMore, page.HasMore())
			assert.Equal(t, tt.wantPages, page.TotalPages)
		})
	}
}

func TestHTTPClient_SearchKeepsRawFragment(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(pageJSON))
	})
	defer srv.Close()

	page, err := client.Search(context.Background(), bestbuy.SearchRequest{Query: "test"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, "1001", page.Items[0].Product.SKU.String())
	assert.Contains(t, string(page.Items[0].Raw), `"Item 1"`)
}

func TestHTTPClient_SearchStringSKUs(t *testing.T) {
	t.Parallel()

	// Some catalogs return sku as a string; both shapes must normalize.
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"currentPage": 1, "totalPages": 1,
			"products": [
				{"sku": "ABC-1001", "name": "String SKU item"},
				{"sku": 1002, "name": "Numeric SKU item"}
			]
		}`))
	})
	defer srv.Close()

	page, err := client.Search(context.Background(), bestbuy.SearchRequest{Query: "test"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	records, skipped := bestbuy.ToRecords(page.Items)
	require.Len(t, records, 2)
	assert.Zero(t, skipped)
	assert.Equal(t, "ABC-1001", records[0].SKU)
	assert.Equal(t, "1002", records[1].SKU)
}

func TestHTTPClient_SearchUndecodableItemKeptRaw(t *testing.T) {
	t.Parallel()

	// One item has a non-scalar sku; the page must survive and the item is
	// carried raw with no decoded product, so normalization counts it as
	// skipped.
	client, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"currentPage": 1, "totalPages": 1,
			"products": [
				{"sku": {"bogus": true}, "name": "Broken"},
				{"sku": 1002, "name": "Fine"}
			]
		}`))
	})
	defer srv.Close()

	page, err := client.Search(context.Background(), bestbuy.SearchRequest{Query: "test"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	records, skipped := bestbuy.ToRecords(page.Items)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "1002", records[0].SKU)
}

func TestHTTPClient_LookupSKUs(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "sku in(1001,1002,9999)")
		assert.Equal(t, "3", r.URL.Query().Get("pageSize"))

		_, _ = w.Write([]byte(`{
			"currentPage": 1, "totalPages": 1, "total": 2,
			"products": [
				{"sku": 1001, "name": "Item 1"},
				{"sku": 1002, "name": "Item 2"}
			]
		}`))
	})
	defer srv.Close()

	page, err := client.LookupSKUs(context.Background(), []string{"1001", "1002", "9999"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestHTTPClient_Categories(t *testing.T) {
	t.Parallel()

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		assert.Equal(t, "id,name", r.URL.Query().Get("show"))

		_, _ = w.Write([]byte(`{
			"categories": [
				{"id": "abcat0101000", "name": "TVs"},
				{"id": "abcat0502000", "name": "Laptops"}
			]
		}`))
	})
	defer srv.Close()

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, domain.Category{ID: "abcat0101000", Name: "TVs"}, categories[0])
}

func TestHTTPClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := bestbuy.NewHTTPClient(bestbuy.StaticKey("k"), bestbuy.WithBaseURL(srv.URL))
	srv.Close() // connection refused from here on

	_, err := client.Search(context.Background(), bestbuy.SearchRequest{Query: "test"})
	require.Error(t, err)

	var transportErr *bestbuy.TransportError
	assert.ErrorAs(t, err, &transportErr)
	assert.True(t, bestbuy.Retryable(err))
}

func TestHTTPClient_RateLimiterDailyQuota(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(pageJSON))
	}))
	defer srv.Close()

	rl := bestbuy.NewRateLimiter(100, 10, 1)
	limited := bestbuy.NewHTTPClient(
		bestbuy.StaticKey("k"),
		bestbuy.WithBaseURL(srv.URL),
		bestbuy.WithRateLimiter(rl),
	)

	_, err := limited.Search(context.Background(), bestbuy.SearchRequest{Query: "a"})
	require.NoError(t, err)

	_, err = limited.Search(context.Background(), bestbuy.SearchRequest{Query: "b"})
	require.ErrorIs(t, err, bestbuy.ErrDailyQuotaReached)
}
