package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-tools/catalog-explorer/internal/api/client"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

func TestQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/query", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req domain.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.ModeKeyword, req.Mode)
		assert.Equal(t, "laptop", req.Keyword)

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{
			"records": [{"sku": "100", "name": "Laptop"}],
			"pages_fetched": 1
		}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	resp, err := c.Query(context.Background(),
		domain.QueryRequest{Mode: domain.ModeKeyword, Keyword: "laptop"})

	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "100", resp.Records[0].SKU)
	assert.Equal(t, 1, resp.PagesFetched)
	assert.Nil(t, resp.Incomplete)
}

func TestQuery_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"empty keyword"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.Query(context.Background(),
		domain.QueryRequest{Mode: domain.ModeKeyword})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "empty keyword")
}

func TestCategories(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/categories", r.URL.Path)
		_, err := w.Write([]byte(`{"categories":[{"id":"cat1","name":"Audio"}]}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	categories, err := c.Categories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "cat1", categories[0].ID)
	assert.Equal(t, "Audio", categories[0].Name)
}

func TestQuota(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/quota", r.URL.Path)
		_, err := w.Write([]byte(`{"daily_limit":50000,"daily_used":12,"remaining":49988}`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	quota, err := c.Quota(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(50000), quota.DailyLimit)
	assert.Equal(t, int64(12), quota.DailyUsed)
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	const csvBody = "sku,name,price,category_path,image_url\n100,Laptop,999.99,,\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/export", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, err := w.Write([]byte(csvBody))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := client.New(srv.URL)

	var buf bytes.Buffer
	err := c.ExportCSV(context.Background(),
		domain.QueryRequest{Mode: domain.ModeKeyword, Keyword: "laptop"}, &buf)

	require.NoError(t, err)
	assert.Equal(t, csvBody, buf.String())
}

func TestServerNotRunning(t *testing.T) {
	t.Parallel()

	// Reserve a port, then close it so nothing is listening.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url)
	_, err := c.Quota(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}
