package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed by the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AccessChecks    *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
}

// NewMetrics registers the service collectors on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "identity",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AccessChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "access_checks_total",
			Help:      "Total number of authorization checks by outcome",
		}, []string{"allowed"}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by outcome",
		}, []string{"outcome"}),
	}
}
