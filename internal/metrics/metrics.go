// catalog-service/internal/metrics/metrics.go

// Package metrics exposes Prometheus collectors for the catalog service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Route templates, not raw paths, are used as labels to keep cardinality bounded.
var (
	// HTTPRequestsTotal counts handled HTTP requests by route, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total number of HTTP requests, by route, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes HTTP handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// ContentOperationsTotal counts service operations by name and outcome.
	ContentOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_content_operations_total",
		Help: "Total number of content operations, by operation and outcome (ok, not_found, error).",
	}, []string{"operation", "outcome"})
)

// ObserveHTTP records one finished request.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordOperation increments the counter for one service operation.
func RecordOperation(operation, outcome string) {
	ContentOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
