// Package metrics adapts internal/prometheus's HTTP-handler
// instrumentation to this module's own domain: per-invocation outcome
// counts and execution latency for wasm module calls, rather than HTTP
// request timings.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks execution-bridge invocation outcomes and latency on
// a private registry. A nil *Collector is valid and Observe becomes a
// no-op, so callers that never opt into metrics pay nothing for it.
type Collector struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates a Collector with its own registry, independent of the
// global prometheus.DefaultRegisterer.
func New() *Collector {
	registry := prometheus.NewRegistry()
	invocations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abihost_invocations_total",
			Help: "Count of wasm module invocations by outcome.",
		},
		[]string{"outcome"},
	)
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "abihost_invocation_duration_seconds",
		Help: "Latency of a single wasm module invocation through the execution bridge.",
	})
	registry.MustRegister(invocations, duration)
	return &Collector{registry: registry, invocations: invocations, duration: duration}
}

// Observe records one invocation's outcome and elapsed time.
func (c *Collector) Observe(elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.invocations.WithLabelValues(outcome).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Handler exposes the collected metrics on a standard /metrics
// endpoint, for a caller that wants to scrape a long-running batch
// run.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
