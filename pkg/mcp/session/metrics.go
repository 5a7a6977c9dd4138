package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// Prometheus Metrics for Session Tracking
// ============================================================================

// Removal reason labels.
const (
	ReasonClient      = "client"
	ReasonIdleTimeout = "idle_timeout"
	ReasonShutdown    = "shutdown"
)

// Metrics provides Prometheus metrics for session lifecycle events.
// All methods are nil-safe: calls on a nil *Metrics are no-ops.
type Metrics struct {
	// CreatedTotal counts sessions created since startup.
	CreatedTotal prometheus.Counter

	// RemovedTotal counts sessions removed, labeled by reason.
	RemovedTotal *prometheus.CounterVec

	// ActiveGauge tracks currently registered sessions.
	ActiveGauge prometheus.Gauge

	// Duration observes session lifetime in seconds at removal.
	Duration prometheus.Histogram
}

// NewMetrics creates and registers session metrics with the given
// Prometheus registerer. If reg is nil, metrics are created but not
// registered (useful for testing).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Total number of sessions created",
		}),
		RemovedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "sessions",
			Name:      "removed_total",
			Help:      "Total number of sessions removed",
		}, []string{"reason"}),
		ActiveGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Current number of registered sessions",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "sessions",
			Name:      "duration_seconds",
			Help:      "Session lifetime in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1s to ~9h
		}),
	}

	if reg != nil {
		collectors := []prometheus.Collector{
			m.CreatedTotal,
			m.RemovedTotal,
			m.ActiveGauge,
			m.Duration,
		}
		for _, c := range collectors {
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

// recordCreated increments creation counters.
func (m *Metrics) recordCreated() {
	if m == nil {
		return
	}
	m.CreatedTotal.Inc()
	m.ActiveGauge.Inc()
}

// recordRemoved increments removal counters and observes the lifetime.
func (m *Metrics) recordRemoved(reason string, seconds float64) {
	if m == nil {
		return
	}
	m.RemovedTotal.WithLabelValues(reason).Inc()
	m.ActiveGauge.Dec()
	m.Duration.Observe(seconds)
}
