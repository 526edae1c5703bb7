package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/storefront-tools/catalog-explorer/internal/api/handlers"
	"github.com/storefront-tools/catalog-explorer/internal/api/middleware"
	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	"github.com/storefront-tools/catalog-explorer/internal/config"
	"github.com/storefront-tools/catalog-explorer/internal/engine"
	"github.com/storefront-tools/catalog-explorer/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and web UI",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:      parseLogLevel(cfg.Logging.Level),
		Formatter:  parseLogFormat(cfg.Logging.Format),
		TimeFormat: time.Kitchen,
	})
	slogger := slog.New(logger)

	rateLimiter := bestbuy.NewRateLimiter(
		cfg.Catalog.RateLimit.PerSecond,
		cfg.Catalog.RateLimit.Burst,
		cfg.Catalog.RateLimit.DailyLimit,
	)

	catalog := bestbuy.NewHTTPClient(
		bestbuy.StaticKey(cfg.Catalog.APIKey),
		bestbuy.WithBaseURL(cfg.Catalog.BaseURL),
		bestbuy.WithPageSize(cfg.Catalog.PageSize),
		bestbuy.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.CallTimeout}),
		bestbuy.WithRateLimiter(rateLimiter),
	)

	eng := engine.New(catalog,
		engine.WithLogger(slogger),
		engine.WithPageSize(cfg.Catalog.PageSize),
		engine.WithMaxPages(cfg.Catalog.MaxPages),
		engine.WithBatchSize(cfg.Catalog.MaxSKUsPerBatch),
		engine.WithMaxAttempts(cfg.Catalog.Retry.Attempts),
		engine.WithBackoffBase(cfg.Catalog.Retry.BackoffBase),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(slogger))
	e.Use(middleware.RequestLog(slogger))
	e.Use(middleware.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler())
	handlers.RegisterExportRoutes(e, handlers.NewExportHandler(eng))
	ui.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Catalog Explorer API", "1.0.0"))
	handlers.RegisterQueryRoutes(api, handlers.NewQueryHandler(eng))
	handlers.RegisterCategoriesRoutes(api, handlers.NewCategoriesHandler(catalog))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(rateLimiter))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseLogFormat(format string) log.Formatter {
	if format == "json" {
		return log.JSONFormatter
	}
	return log.TextFormatter
}
