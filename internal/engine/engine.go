// Package engine implements the product query engine: it turns a query
// request into paginated catalog API calls and aggregates the responses into
// one normalized, de-duplicated result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	"github.com/storefront-tools/catalog-explorer/internal/metrics"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

const (
	defaultPageSize    = 20
	defaultMaxPages    = 10
	defaultBatchSize   = 25
	defaultMaxAttempts = 3
	defaultBackoffBase = 500 * time.Millisecond
)

// Engine executes catalog queries. It holds no per-query state; concurrent
// Execute calls are independent.
type Engine struct {
	catalog bestbuy.Client
	log     *slog.Logger

	pageSize    int
	maxPages    int
	batchSize   int
	maxAttempts int
	backoffBase time.Duration
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithPageSize sets the page size requested from the provider.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		e.pageSize = n
	}
}

// WithMaxPages caps the number of pages fetched per query, guarding against
// unbounded result sets.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		e.maxPages = n
	}
}

// WithBatchSize sets the maximum SKUs per lookup call.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

// WithMaxAttempts sets the total attempts per catalog call, first try
// included.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		e.maxAttempts = n
	}
}

// WithBackoffBase sets the initial retry backoff interval.
func WithBackoffBase(d time.Duration) Option {
	return func(e *Engine) {
		e.backoffBase = d
	}
}

// New creates an Engine around the given catalog client.
func New(catalog bestbuy.Client, opts ...Option) *Engine {
	e := &Engine{
		catalog:     catalog,
		log:         slog.Default(),
		pageSize:    defaultPageSize,
		maxPages:    defaultMaxPages,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one query against the catalog. Partial coverage is returned
// as a result with Incomplete set, not as an error; only invalid requests,
// rejected credentials, and fully failed queries produce an error.
func (e *Engine) Execute(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.QueryDuration.
			WithLabelValues(string(req.Mode)).
			Observe(time.Since(start).Seconds())
	}()

	var result *domain.QueryResult
	switch req.Mode {
	case domain.ModeKeyword:
		result, err = e.paginate(ctx, req.Mode, bestbuy.SearchRequest{Query: req.Keyword})
	case domain.ModeCategory:
		result, err = e.paginate(ctx, req.Mode, bestbuy.SearchRequest{CategoryID: req.CategoryID})
	case domain.ModeSKU:
		result, err = e.lookup(ctx, req.SKUs)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordsReturnedTotal.Add(float64(len(result.Records)))
	metrics.SkippedRecordsTotal.Add(float64(result.SkippedRecords))
	if result.Partial() {
		metrics.QueryPartialTotal.Inc()
		e.log.Warn("query completed partially",
			"mode", req.Mode,
			"records", len(result.Records),
			"reason", result.Incomplete.Reason,
		)
	}

	return result, nil
}

// normalizeRequest validates the request and trims SKU input. Rejections
// happen before any network call.
func normalizeRequest(req domain.QueryRequest) (domain.QueryRequest, error) {
	switch req.Mode {
	case domain.ModeKeyword:
		req.Keyword = strings.TrimSpace(req.Keyword)
		if req.Keyword == "" {
			return req, fmt.Errorf("%w: empty keyword", domain.ErrInvalidRequest)
		}
	case domain.ModeCategory:
		req.CategoryID = strings.TrimSpace(req.CategoryID)
		if req.CategoryID == "" {
			return req, fmt.Errorf("%w: missing category id", domain.ErrInvalidRequest)
		}
	case domain.ModeSKU:
		skus := make([]string, 0, len(req.SKUs))
		seen := make(map[string]struct{}, len(req.SKUs))
		for _, sku := range req.SKUs {
			sku = strings.TrimSpace(sku)
			if sku == "" {
				continue
			}
			if _, dup := seen[sku]; dup {
				continue
			}
			seen[sku] = struct{}{}
			skus = append(skus, sku)
		}
		if len(skus) == 0 {
			return req, fmt.Errorf("%w: empty SKU set", domain.ErrInvalidRequest)
		}
		req.SKUs = skus
	default:
		return req, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidRequest, req.Mode)
	}
	return req, nil
}

// paginate drives the shared page loop for keyword and category queries.
func (e *Engine) paginate(
	ctx context.Context,
	mode domain.QueryMode,
	sreq bestbuy.SearchRequest,
) (*domain.QueryResult, error) {
	sreq.PageSize = e.pageSize

	acc := newAccumulator()

	for page := 1; page <= e.maxPages; page++ {
		if ctx.Err() != nil {
			return acc.partial(&domain.IncompleteInfo{
				Mode:   mode,
				Page:   page,
				Reason: "canceled",
			}), nil
		}

		sreq.Page = page

		resp, err := e.callWithRetry(ctx, func() (*bestbuy.Page, error) {
			return e.catalog.Search(ctx, sreq)
		})
		if err != nil {
			return e.callFailed(acc, err, &domain.IncompleteInfo{
				Mode:   mode,
				Page:   page,
				Reason: err.Error(),
			})
		}

		acc.pages++
		acc.add(resp.Items)

		if len(resp.Items) == 0 || !resp.HasMore() {
			break
		}
	}

	return acc.result(), nil
}

// lookup partitions the SKU set into provider-sized batches and merges the
// per-batch results. Unknown SKUs are not an error; their count is reported
// as metadata.
func (e *Engine) lookup(ctx context.Context, skus []string) (*domain.QueryResult, error) {
	acc := newAccumulator()

	requested := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		requested[sku] = struct{}{}
	}

	batches := chunk(skus, e.batchSize)
	for i, batch := range batches {
		if ctx.Err() != nil {
			return acc.lookupPartial(requested, &domain.IncompleteInfo{
				Mode:   domain.ModeSKU,
				Batch:  i + 1,
				Reason: "canceled",
			}), nil
		}

		resp, err := e.callWithRetry(ctx, func() (*bestbuy.Page, error) {
			return e.catalog.LookupSKUs(ctx, batch)
		})
		if err != nil {
			res, rerr := e.callFailed(acc, err, &domain.IncompleteInfo{
				Mode:   domain.ModeSKU,
				Batch:  i + 1,
				Reason: err.Error(),
			})
			if res != nil {
				res.UnmatchedSKUs = acc.unmatched(requested)
			}
			return res, rerr
		}

		acc.pages++
		acc.add(resp.Items)
	}

	result := acc.result()
	result.UnmatchedSKUs = acc.unmatched(requested)
	return result, nil
}

// callFailed decides how an exhausted call surfaces: rejected credentials
// and invalid requests propagate as errors, caller aborts become a canceled
// partial result, and everything else degrades to a partial result when any
// records were gathered.
func (e *Engine) callFailed(
	acc *accumulator,
	err error,
	info *domain.IncompleteInfo,
) (*domain.QueryResult, error) {
	if errors.Is(err, domain.ErrAuthentication) || errors.Is(err, domain.ErrInvalidRequest) {
		return nil, err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		info.Reason = "canceled"
		return acc.partial(info), nil
	}
	if acc.empty() {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return acc.partial(info), nil
}

func chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = defaultBatchSize
	}
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
