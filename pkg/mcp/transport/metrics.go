package transport

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ============================================================================
// Prometheus Metrics for the MCP Transport
// ============================================================================

// Metrics provides Prometheus metrics for RPC and stream activity.
// All methods are nil-safe: calls on a nil *Metrics are no-ops.
type Metrics struct {
	// RPCTotal counts handled JSON-RPC requests, labeled by method and
	// outcome ("ok" or "error").
	RPCTotal *prometheus.CounterVec

	// RPCDuration observes request handling time in seconds, by method.
	RPCDuration *prometheus.HistogramVec

	// ToolCallsTotal counts tool invocations, labeled by tool and outcome.
	// Outcome values: "ok", "tool_error", "not_found", "internal".
	ToolCallsTotal *prometheus.CounterVec

	// StreamsActive tracks currently attached SSE streams.
	StreamsActive prometheus.Gauge

	// EventsSent counts events written to the replay buffer.
	EventsSent prometheus.Counter

	// EventsReplayed counts events re-delivered after a resume marker.
	EventsReplayed prometheus.Counter
}

// NewMetrics creates and registers transport metrics with the given
// Prometheus registerer. If reg is nil, metrics are created but not
// registered (useful for testing).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of JSON-RPC requests handled",
		}, []string{"method", "outcome"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "rpc",
			Name:      "duration_seconds",
			Help:      "JSON-RPC request handling time in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~32s
		}, []string{"method"}),
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "tools",
			Name:      "calls_total",
			Help:      "Total number of tool invocations",
		}, []string{"tool", "outcome"}),
		StreamsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "streams",
			Name:      "active",
			Help:      "Current number of attached SSE streams",
		}),
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "streams",
			Name:      "events_sent_total",
			Help:      "Total number of events buffered for delivery",
		}),
		EventsReplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shortcut_mcp",
			Subsystem: "streams",
			Name:      "events_replayed_total",
			Help:      "Total number of events replayed after a resume marker",
		}),
	}

	if reg != nil {
		collectors := []prometheus.Collector{
			m.RPCTotal,
			m.RPCDuration,
			m.ToolCallsTotal,
			m.StreamsActive,
			m.EventsSent,
			m.EventsReplayed,
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

// recordRPC increments the request counter and observes its duration.
func (m *Metrics) recordRPC(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCTotal.WithLabelValues(method, outcome).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(seconds)
}

// recordToolCall increments the tool call counter.
func (m *Metrics) recordToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// recordStreamAttached increments the active stream gauge.
func (m *Metrics) recordStreamAttached() {
	if m == nil {
		return
	}
	m.StreamsActive.Inc()
}

// recordStreamDetached decrements the active stream gauge.
func (m *Metrics) recordStreamDetached() {
	if m == nil {
		return
	}
	m.StreamsActive.Dec()
}

// recordEventSent increments the buffered event counter.
func (m *Metrics) recordEventSent() {
	if m == nil {
		return
	}
	m.EventsSent.Inc()
}

// recordEventsReplayed adds to the replayed event counter.
func (m *Metrics) recordEventsReplayed(n int) {
	if m == nil || n == 0 {
		return
	}
	m.EventsReplayed.Add(float64(n))
}
