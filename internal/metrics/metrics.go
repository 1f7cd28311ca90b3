// Package metrics defines the prometheus collectors exposed on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts finished HTTP requests by method, route
	// pattern and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route
	// pattern. Route patterns, not raw paths, keep label cardinality bounded.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// URLsCreatedTotal counts newly created url mappings. Idempotent hits on
	// an existing mapping are not counted.
	URLsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "urls_created_total",
			Help: "Total number of url mappings created.",
		},
	)
)

var registerOnce sync.Once

// Register registers the collectors with the default registry. Safe to call
// more than once; the registry panics on duplicate registration.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			URLsCreatedTotal,
		)
	})
}
