// Package metrics defines Prometheus metrics for catalog-explorer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catex"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Catalog provider API metrics.
var (
	CatalogAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_api_calls_total",
		Help:      "Total cumulative catalog API calls.",
	})

	CatalogAPIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_api_errors_total",
		Help:      "Total catalog API call failures by kind.",
	}, []string{"kind"})

	CatalogDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_daily_usage",
		Help:      "Current daily catalog API call count within the rolling 24-hour window.",
	})

	CatalogDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_daily_limit_hits_total",
		Help:      "Total number of times the daily catalog API limit was reached.",
	})
)

// Query engine metrics.
var (
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of engine query executions in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	QueryRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_retries_total",
		Help:      "Total number of retried catalog API calls.",
	})

	QueryPartialTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_partial_total",
		Help:      "Total number of queries that returned a partial result.",
	})

	RecordsReturnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_returned_total",
		Help:      "Total number of product records returned to callers.",
	})

	SkippedRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_records_total",
		Help:      "Total number of malformed provider records skipped during normalization.",
	})
)
