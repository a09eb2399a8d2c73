// Package observability holds the Prometheus instrumentation for the HTTP
// surface.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of HTTP requests grouped by route, method and status code.",
	}, []string{"route", "method", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fittrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency per route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	authFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fittrack",
		Subsystem: "auth",
		Name:      "failures_total",
		Help:      "Number of rejected bearer tokens grouped by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration, authFailureCounter)
}

// RecordRequest counts a finished request and observes its latency. The
// route label is the registered pattern, not the raw path, to keep the
// cardinality bounded.
func RecordRequest(route, method string, status int, elapsed time.Duration) {
	requestCounter.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordAuthFailure counts a rejected bearer token.
func RecordAuthFailure(reason string) {
	authFailureCounter.WithLabelValues(reason).Inc()
}
