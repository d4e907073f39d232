package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/respcache/pkg/cache"
)

// StatsSource supplies the counters the collector exports. A *cache.Cache
// of any value type satisfies it.
type StatsSource interface {
	Stats() cache.Stats
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	source StatsSource

	requests   *prometheus.Desc
	hits       *prometheus.Desc
	misses     *prometheus.Desc
	evictions  *prometheus.Desc
	errors     *prometheus.Desc
	entries    *prometheus.Desc
	maxEntries *prometheus.Desc
	hitRatio   *prometheus.Desc
}

// NewCollector builds a collector for the source. The name becomes the
// cache label value distinguishing caches that share a registry.
func NewCollector(name string, source StatsSource) *Collector {
	labels := prometheus.Labels{"cache": name}
	return &Collector{
		source: source,
		requests: prometheus.NewDesc("respcache_requests_total",
			"Total lookup requests, including failed fingerprint derivations.", nil, labels),
		hits: prometheus.NewDesc("respcache_hits_total",
			"Lookups served from the cache.", nil, labels),
		misses: prometheus.NewDesc("respcache_misses_total",
			"Lookups that found no live entry.", nil, labels),
		evictions: prometheus.NewDesc("respcache_evictions_total",
			"Entries removed by the capacity bound.", nil, labels),
		errors: prometheus.NewDesc("respcache_errors_total",
			"Requests whose fingerprint could not be derived.", nil, labels),
		entries: prometheus.NewDesc("respcache_entries",
			"Entries currently resident, expired-but-unswept included.", nil, labels),
		maxEntries: prometheus.NewDesc("respcache_max_entries",
			"Configured capacity bound, 0 when unbounded.", nil, labels),
		hitRatio: prometheus.NewDesc("respcache_hit_ratio",
			"Hits divided by total requests, 0 before any traffic.", nil, labels),
	}
}

// MustRegister builds the collector and registers it, panicking on
// registration conflicts. Pass prometheus.DefaultRegisterer for the global
// registry.
func MustRegister(reg prometheus.Registerer, name string, source StatsSource) *Collector {
	col := NewCollector(name, source)
	reg.MustRegister(col)
	return col
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.errors
	ch <- c.entries
	ch <- c.maxEntries
	ch <- c.hitRatio
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.TotalRequests))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.Errors))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.maxEntries, prometheus.GaugeValue, float64(s.MaxSize))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRate)
}
