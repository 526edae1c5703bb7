package bestbuy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-tools/catalog-explorer/internal/metrics"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

const (
	defaultBaseURL  = "https://api.bestbuy.com/v1"
	defaultPageSize = 20

	// showFields is the provider field list requested on every product call.
	showFields = "sku,name,regularPrice,salePrice,onlineAvailability,image,categoryPath"
)

// HTTPClient implements Client against the Best Buy products API.
type HTTPClient struct {
	keys        KeyProvider
	baseURL     string
	pageSize    int
	client      *http.Client
	rateLimiter *RateLimiter
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithPageSize overrides the default page size.
func WithPageSize(n int) Option {
	return func(c *HTTPClient) {
		c.pageSize = n
	}
}

// WithHTTPClient overrides the default HTTP client. The client's timeout is
// the per-call timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter shared across queries for the same
// credential. When set, every API call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *HTTPClient) {
		c.rateLimiter = r
	}
}

// NewHTTPClient creates a Best Buy products API client.
func NewHTTPClient(keys KeyProvider, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		keys:     keys,
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search implements Client.Search for keyword and category queries.
func (c *HTTPClient) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	var path string
	switch {
	case req.CategoryID != "":
		path = fmt.Sprintf("/products((categoryPath.id=%s))", url.PathEscape(req.CategoryID))
	default:
		path = fmt.Sprintf("/products((search=%s))", url.PathEscape(req.Query))
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// LookupSKUs implements Client.LookupSKUs. The caller is responsible for
// keeping len(skus) within the provider batch limit.
func (c *HTTPClient) LookupSKUs(ctx context.Context, skus []string) (*Page, error) {
	path := fmt.Sprintf("/products(sku in(%s))", url.PathEscape(strings.Join(skus, ",")))

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(len(skus)))

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// Categories implements Client.Categories.
func (c *HTTPClient) Categories(ctx context.Context) ([]domain.Category, error) {
	params := url.Values{}
	params.Set("show", "id,name")
	params.Set("pageSize", "100")

	body, err := c.get(ctx, "/categories", params)
	if err != nil {
		return nil, err
	}

	var envelope categoriesEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing categories response: %w", err)
	}

	categories := make([]domain.Category, 0, len(envelope.Categories))
	for _, wc := range envelope.Categories {
		categories = append(categories, domain.Category{ID: wc.ID, Name: wc.Name})
	}
	return categories, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyQuotaReached) {
				metrics.CatalogDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.CatalogAPICallsTotal.Inc()
		metrics.CatalogDailyUsage.Set(float64(c.rateLimiter.Snapshot().Used))
	}

	key, err := c.keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting API key: %w", err)
	}

	params.Set("apiKey", key)
	params.Set("format", "json")
	if params.Get("show") == "" {
		params.Set("show", showFields)
	}

	u := c.baseURL + path + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		metrics.CatalogAPIErrorsTotal.WithLabelValues("transport").Inc()
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.CatalogAPIErrorsTotal.WithLabelValues("transport").Inc()
		return nil, &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, body)
	}

	return body, nil
}

// statusError classifies a non-200 provider response. The provider answers
// both bad and over-quota keys with 401/403, which are terminal for the
// whole query; 429 carries an optional Retry-After pause.
func (c *HTTPClient) statusError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		metrics.CatalogAPIErrorsTotal.WithLabelValues("auth").Inc()
		return fmt.Errorf("%w (status %d): %s",
			domain.ErrAuthentication, resp.StatusCode, strings.TrimSpace(string(body)))
	case http.StatusTooManyRequests:
		metrics.CatalogAPIErrorsTotal.WithLabelValues("rate_limited").Inc()
	default:
		metrics.CatalogAPIErrorsTotal.WithLabelValues("status").Inc()
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func decodePage(body []byte) (*Page, error) {
	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parsing products response: %w", err)
	}

	page := &Page{
		Total:       envelope.Total,
		CurrentPage: envelope.CurrentPage,
		TotalPages:  envelope.TotalPages,
		Items:       make([]Item, 0, len(envelope.Products)),
	}

	for _, raw := range envelope.Products {
		var product Product
		if err := json.Unmarshal(raw, &product); err != nil {
			// A single undecodable item must not fail the page; convert
			// counts it as skipped via the empty SKU.
			page.Items = append(page.Items, Item{Raw: raw})
			continue
		}
		page.Items = append(page.Items, Item{Product: product, Raw: raw})
	}

	return page, nil
}
