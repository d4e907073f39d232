// Package respcache provides a bounded, thread-safe response cache for
// expensive idempotent computations such as LLM completions or third-party
// API calls.
//
// Identical requests are recognized by a deterministic fingerprint over the
// primary input and an options map, so repeated calls return the stored
// response instead of paying for the computation again.
//
// Key Features:
//
//   - Type-safe caching of any response type using generics
//   - Deterministic SHA-256 request fingerprinting
//   - Pluggable eviction policies (LRU, LFU, FIFO) with a hard size bound
//   - Per-entry TTL with lazy expiry and an optional background sweeper
//   - Durable layers for SQLite and Redis that survive restarts
//   - Hit-rate analysis with tuning recommendations
//   - Prometheus metrics and an embeddable HTTP admin surface
//
// Basic Usage:
//
//	c, err := cache.New[string]()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	opts := map[string]any{"model": "small", "temperature": 0.2}
//	if v, ok, _ := c.Get(prompt, opts); ok {
//		return v // cache hit, no model call
//	}
//	v := callModel(prompt, opts)
//	_ = c.Set(prompt, opts, v, 0)
//
// Durable Caching:
//
//	store, err := persist.NewSQLiteStore(ctx, "respcache.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	p, err := persist.NewPersistent(c, store)
//	if err != nil {
//		log.Fatal(err)
//	}
//	restored, _ := p.Load(ctx) // warm memory from disk
//
// Observability:
//
//	mon := monitor.New()
//	c, _ := cache.New[string](cache.WithObserver(mon))
//	metrics.MustRegister(prometheus.DefaultRegisterer, "responses", c)
//	mux.Mount("/cache", cachehttp.Router(c, cachehttp.WithAdvisor(mon)))
//
// The module follows these principles:
//   - Graceful degradation over hard failure
//   - Explicit configuration over hidden defaults
//   - Bounded memory over unbounded growth
package respcache
