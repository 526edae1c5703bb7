package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/storefront-tools/catalog-explorer/internal/api/handlers"
)

// Recovery returns Echo middleware that converts a handler panic into a 500
// response. The stack is logged with the request ID so the failure can be
// tied back to its access log line.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				log.Error("panic in handler",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", c.Get("request_id"),
					"stack", string(debug.Stack()),
				)

				err = c.JSON(http.StatusInternalServerError,
					handlers.ErrorResponse{Error: "internal server error"})
			}()
			return next(c)
		}
	}
}
