// ABOUTME: Prometheus collectors for the HTTP API.
// ABOUTME: Request counters and latency plus domain and cache counters.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babymeasure_http_requests_total",
		Help: "Total number of HTTP requests",
	})
	httpRequestErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babymeasure_http_request_errors_total",
		Help: "Total number of HTTP requests answered with status >= 400",
	})
	httpRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "babymeasure_http_request_duration_seconds",
		Help:    "Duration of HTTP request handling in seconds",
		Buckets: prometheus.DefBuckets,
	})

	measurementsLoggedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "babymeasure_measurements_logged_total",
		Help: "Measurements stored through the API, by metric",
	}, []string{"metric"})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babymeasure_cache_hits_total",
		Help: "Read requests answered from the response cache",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babymeasure_cache_misses_total",
		Help: "Read requests that had to query the database",
	})
)
