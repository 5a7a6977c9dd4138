package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics instruments the MCP endpoint's HTTP surface.
// All methods are nil-safe: calls on a nil *HTTPMetrics are no-ops.
type HTTPMetrics struct {
	// RequestsTotal counts requests by verb and response status.
	RequestsTotal *prometheus.CounterVec

	// Duration observes request handling time in seconds, by verb. The
	// long-lived GET stream dominates its bucket by design; per-method
	// RPC latency lives in the transport metrics instead.
	Duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics with the given
// Prometheus registerer. If reg is nil, metrics are created but not
// registered (useful for testing).
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		}, []string{"verb", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~32s
		}, []string{"verb"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.RequestsTotal, m.Duration} {
			if err := reg.Register(c); err != nil {
				// Ignore AlreadyRegisteredError (server restart re-registers).
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	}

	return m
}

// Record counts one handled request.
func (m *HTTPMetrics) Record(verb string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(verb, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(verb).Observe(seconds)
}
