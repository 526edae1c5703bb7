package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
)

// QuotaHandler provides the catalog API quota status endpoint.
type QuotaHandler struct {
	rl *bestbuy.RateLimiter
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(rl *bestbuy.RateLimiter) *QuotaHandler {
	return &QuotaHandler{rl: rl}
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		DailyLimit int64     `json:"daily_limit" example:"50000"                doc:"Configured daily API call limit"`
		DailyUsed  int64     `json:"daily_used"  example:"142"                  doc:"API calls used in the current 24-hour window"`
		Remaining  int64     `json:"remaining"   example:"49858"                doc:"API calls remaining in the current window"`
		ResetAt    time.Time `json:"reset_at"    example:"2026-08-30T14:30:00Z" doc:"When the current 24-hour window expires"`
	}
}

// GetQuota returns the current catalog API quota status.
func (h *QuotaHandler) GetQuota(_ context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl == nil {
		return resp, nil
	}

	quota := h.rl.Snapshot()
	resp.Body.DailyLimit = quota.Limit
	resp.Body.DailyUsed = quota.Used
	resp.Body.Remaining = quota.Remaining
	resp.Body.ResetAt = quota.ResetAt

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get catalog API quota status",
		Description: "Returns the current daily API call usage, remaining quota, and window reset time.",
		Tags:        []string{"catalog"},
	}, h.GetQuota)
}
