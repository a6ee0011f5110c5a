package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments shared across handlers.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	LoginAttempts   *prometheus.CounterVec
}

// New creates and registers all shared Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legado_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "legado_login_attempts_total",
			Help: "Login attempts partitioned by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one request observation.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	m.RequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

// IncLogin counts a login attempt outcome ("success" or "failure").
func (m *Metrics) IncLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}
