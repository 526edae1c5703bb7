package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront-tools/catalog-explorer/internal/engine"
	"github.com/storefront-tools/catalog-explorer/internal/export"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// ExportHandler streams query results as a CSV download. It re-executes the
// query; the engine is stateless, so an unchanged provider yields the same
// rows the caller saw in the table.
type ExportHandler struct {
	engine *engine.Engine
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(eng *engine.Engine) *ExportHandler {
	return &ExportHandler{engine: eng}
}

// partialHeader tells the caller a CSV covers only part of the query.
const partialHeader = "X-Partial-Result"

// Export runs the query and writes the records as CSV.
func (h *ExportHandler) Export(c echo.Context) error {
	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	result, err := h.engine.Execute(c.Request().Context(), req)
	if err != nil {
		return exportError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+exportFilename(req.Mode)+`"`)
	if result.Partial() {
		c.Response().Header().Set(partialHeader, result.Incomplete.Reason)
	}
	c.Response().WriteHeader(http.StatusOK)

	return export.WriteCSV(c.Response(), result.Records)
}

func exportError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAuthentication):
		return c.JSON(http.StatusBadGateway,
			ErrorResponse{Error: "catalog credential rejected by provider"})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func exportFilename(mode domain.QueryMode) string {
	switch mode {
	case domain.ModeSKU:
		return "sku_results.csv"
	case domain.ModeCategory:
		return "category_results.csv"
	default:
		return "keyword_results.csv"
	}
}

// RegisterExportRoutes registers the export endpoint on the Echo instance.
func RegisterExportRoutes(e *echo.Echo, h *ExportHandler) {
	e.POST("/api/v1/export", h.Export)
}
