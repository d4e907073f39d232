// Package metrics exports response cache statistics in Prometheus format.
//
// The collector reads a stats snapshot at scrape time, so the cache's hot
// path carries no instrumentation hooks and pre-existing caches can be
// exported without changes.
//
// # Usage
//
//	c, _ := cache.New[string]()
//
//	metrics.MustRegister(prometheus.DefaultRegisterer, "responses", c)
//	http.Handle("/metrics", promhttp.Handler())
//
// Every metric carries a cache label, so several caches can share one
// registry under distinct names.
package metrics
