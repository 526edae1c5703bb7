package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storefront-tools/catalog-explorer/internal/engine"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// QueryHandler handles catalog query requests.
type QueryHandler struct {
	engine *engine.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eng *engine.Engine) *QueryHandler {
	return &QueryHandler{engine: eng}
}

// QueryInput is the request body for the query endpoint.
type QueryInput struct {
	Body struct {
		Mode       domain.QueryMode `json:"mode"                  enum:"keyword,sku,category" doc:"Query mode"                          example:"keyword"`
		Keyword    string           `json:"keyword,omitempty"     doc:"Search keyword for keyword mode"                                 example:"laptop"`
		SKUs       []string         `json:"skus,omitempty"        doc:"SKU list for sku mode"                                           example:"6487433,6487434"`
		CategoryID string           `json:"category_id,omitempty" doc:"Provider category id for category mode"                          example:"abcat0502000"`
	}
}

// QueryOutput is the response body for the query endpoint.
type QueryOutput struct {
	Body struct {
		Records        []domain.ProductRecord `json:"records"              doc:"Normalized, de-duplicated product records in first-seen order"`
		UnmatchedSKUs  int                    `json:"unmatched_skus"       doc:"Requested SKUs the provider did not recognize (sku mode only)"`
		SkippedRecords int                    `json:"skipped_records"      doc:"Provider items dropped for lacking a sku"`
		PagesFetched   int                    `json:"pages_fetched"        doc:"Provider calls that completed"`
		Incomplete     *domain.IncompleteInfo `json:"incomplete,omitempty" doc:"Set when the result covers only part of the query"`
	}
}

// Query executes a catalog query and returns the aggregated result. Partial
// results are returned with 200 and the incomplete marker set; callers must
// render them with a caveat rather than treating them as failures.
func (h *QueryHandler) Query(ctx context.Context, input *QueryInput) (*QueryOutput, error) {
	result, err := h.engine.Execute(ctx, domain.QueryRequest{
		Mode:       input.Body.Mode,
		Keyword:    input.Body.Keyword,
		SKUs:       input.Body.SKUs,
		CategoryID: input.Body.CategoryID,
	})
	if err != nil {
		return nil, mapEngineError(err)
	}

	out := &QueryOutput{}
	out.Body.Records = result.Records
	out.Body.UnmatchedSKUs = result.UnmatchedSKUs
	out.Body.SkippedRecords = result.SkippedRecords
	out.Body.PagesFetched = result.PagesFetched
	out.Body.Incomplete = result.Incomplete
	return out, nil
}

// mapEngineError translates engine error kinds into HTTP problems. The
// provider credential is server-side configuration, so its rejection is a
// gateway problem from the caller's point of view.
func mapEngineError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrAuthentication):
		return huma.Error502BadGateway("catalog credential rejected by provider")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

// RegisterQueryRoutes registers the query endpoint with the Huma API.
func RegisterQueryRoutes(api huma.API, h *QueryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "query-catalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/query",
		Summary:     "Query the product catalog",
		Description: "Executes a keyword search, SKU lookup, or category browse against the catalog provider and returns normalized records.",
		Tags:        []string{"query"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
		},
	}, h.Query)
}
