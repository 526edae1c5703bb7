package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once the process can serve queries. The tool holds no
// connections of its own, so readiness equals liveness.
func (*HealthHandler) Readyz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// RegisterHealthRoutes registers health endpoints on the Echo instance.
func RegisterHealthRoutes(e *echo.Echo, h *HealthHandler) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
