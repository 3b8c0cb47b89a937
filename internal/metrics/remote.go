// Package metrics holds the Prometheus collectors for ytsearch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for remote calls.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// Remote Data API metrics.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytsearch",
			Name:      "remote_requests_total",
			Help:      "Total number of Data API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ytsearch",
			Name:      "remote_request_duration_seconds",
			Help:      "Data API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)

// Search orchestration metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ytsearch",
			Name:      "searches_total",
			Help:      "Searches by outcome: applied, stale or failed",
		},
		[]string{"outcome"},
	)

	CommentsDegradedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ytsearch",
			Name:      "comments_degraded_total",
			Help:      "Comment fetches that failed and were replaced with an empty list",
		},
	)
)

func init() {
	prometheus.MustRegister(RemoteRequestsTotal)
	prometheus.MustRegister(RemoteRequestDuration)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(CommentsDegradedTotal)
}

// ObserveRemote records one remote call that started at start.
func ObserveRemote(endpoint, outcome string, start time.Time) {
	RemoteRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	RemoteRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
