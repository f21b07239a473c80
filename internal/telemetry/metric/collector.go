package metric

import "github.com/prometheus/client_golang/prometheus"

// KeySpaceStats is the subset of store state the collector scrapes.
type KeySpaceStats interface {
	Keys() int
	PendingExpiries() int
}

// KeySpaceCollector collects point-in-time key space gauges.
type KeySpaceCollector struct {
	stats KeySpaceStats

	keysDesc    *prometheus.Desc
	pendingDesc *prometheus.Desc
}

// NewKeySpaceCollector creates a collector reading from stats.
func NewKeySpaceCollector(stats KeySpaceStats) *KeySpaceCollector {
	return &KeySpaceCollector{
		stats: stats,
		keysDesc: prometheus.NewDesc(
			"lorikv_keys",
			"Number of live keys in the key space.",
			nil, nil,
		),
		pendingDesc: prometheus.NewDesc(
			"lorikv_pending_expiries",
			"Number of entries in the expiry queue, including stale ones.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeySpaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
	ch <- c.pendingDesc
}

// Collect implements prometheus.Collector.
func (c *KeySpaceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(c.stats.Keys()))
	ch <- prometheus.MustNewConstMetric(c.pendingDesc, prometheus.GaugeValue, float64(c.stats.PendingExpiries()))
}
