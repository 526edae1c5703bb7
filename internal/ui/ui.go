// Package ui serves the embedded single-page web interface.
package ui

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed index.html
var assets embed.FS

// RegisterRoutes adds the UI routes to the Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", serveIndex)
	e.GET("/index.html", serveIndex)
}

func serveIndex(c echo.Context) error {
	data, err := assets.ReadFile("index.html")
	if err != nil {
		return c.String(http.StatusInternalServerError, "ui not found")
	}
	return c.HTMLBlob(http.StatusOK, data)
}
