package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InstrumentUpstream wraps a RoundTripper with request counters and latency
// histograms for outbound Shortcut API calls. Wired below the rate limiter,
// so observed latency excludes limiter waits.
func InstrumentUpstream(reg prometheus.Registerer, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shortcut_mcp",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total number of Shortcut API requests",
	}, []string{"code", "method"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shortcut_mcp",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Shortcut API request time in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	}, []string{"method"})

	if reg != nil {
		for _, c := range []prometheus.Collector{counter, duration} {
			if err := reg.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	}

	return promhttp.InstrumentRoundTripperCounter(counter,
		promhttp.InstrumentRoundTripperDuration(duration, base))
}
