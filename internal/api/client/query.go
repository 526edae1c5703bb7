package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// QueryResponse is the query endpoint response body.
type QueryResponse struct {
	Records        []domain.ProductRecord `json:"records"`
	UnmatchedSKUs  int                    `json:"unmatched_skus"`
	SkippedRecords int                    `json:"skipped_records"`
	PagesFetched   int                    `json:"pages_fetched"`
	Incomplete     *domain.IncompleteInfo `json:"incomplete,omitempty"`
}

// Query executes a catalog query through the API server.
func (c *Client) Query(ctx context.Context, req domain.QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.post(ctx, "/api/v1/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CategoriesResponse is the categories endpoint response body.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// Categories fetches the provider category tree.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp CategoriesResponse
	if err := c.get(ctx, "/api/v1/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// QuotaResponse is the quota endpoint response body.
type QuotaResponse struct {
	DailyLimit int64     `json:"daily_limit"`
	DailyUsed  int64     `json:"daily_used"`
	Remaining  int64     `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
}

// Quota fetches the current catalog API quota status.
func (c *Client) Quota(ctx context.Context) (*QuotaResponse, error) {
	var resp QuotaResponse
	if err := c.get(ctx, "/api/v1/quota", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportCSV runs the query through the export endpoint and writes the CSV
// body to w.
func (c *Client) ExportCSV(ctx context.Context, req domain.QueryRequest, w io.Writer) error {
	resp, err := c.doRaw(ctx, http.MethodPost, "/api/v1/export", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
