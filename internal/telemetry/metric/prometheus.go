// Package metric provides Prometheus metrics for LoriKV.
//
// It exposes metrics in Prometheus format for monitoring key counts,
// command rates, latencies, expiry activity, and connection churn.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics backed by a dedicated
// Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	connectionsActive prometheus.Gauge

	expiredKeysTotal *prometheus.CounterVec
	staleEntriesTotal prometheus.Counter
	sweepDuration     prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all application
// metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lorikv",
			Name:      "commands_total",
			Help:      "Total number of commands processed.",
		}, []string{"command"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lorikv",
			Name:      "command_duration_seconds",
			Help:      "Command processing latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"command"}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lorikv",
			Name:      "connections_active",
			Help:      "Number of open client connections.",
		}),
		expiredKeysTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lorikv",
			Name:      "expired_keys_total",
			Help:      "Keys evicted after their TTL elapsed, by eviction mode.",
		}, []string{"mode"}),
		staleEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lorikv",
			Name:      "stale_expiry_entries_total",
			Help:      "Expiry bookkeeping entries discarded as out of date.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lorikv",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of background expiry sweeps.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}

	reg.MustRegister(
		r.commandsTotal,
		r.commandDuration,
		r.connectionsActive,
		r.expiredKeysTotal,
		r.staleEntriesTotal,
		r.sweepDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveCommand records one processed command and its latency.
func (r *Registry) ObserveCommand(command string, elapsed time.Duration) {
	r.commandsTotal.WithLabelValues(command).Inc()
	r.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ConnOpened increments the active connection gauge.
func (r *Registry) ConnOpened() { r.connectionsActive.Inc() }

// ConnClosed decrements the active connection gauge.
func (r *Registry) ConnClosed() { r.connectionsActive.Dec() }

// KeyExpired records a key eviction. Passive evictions happen on
// access, active ones during background sweeps.
func (r *Registry) KeyExpired(active bool) {
	mode := "passive"
	if active {
		mode = "sweep"
	}
	r.expiredKeysTotal.WithLabelValues(mode).Inc()
}

// ObserveSweep records one background sweep.
func (r *Registry) ObserveSweep(elapsed time.Duration, stale int) {
	r.sweepDuration.Observe(elapsed.Seconds())
	if stale > 0 {
		r.staleEntriesTotal.Add(float64(stale))
	}
}

// MustRegister registers additional collectors, such as the key space
// collector, with the underlying registry.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
