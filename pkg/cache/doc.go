// Package cache provides a bounded, thread-safe, in-memory store for the
// results of expensive idempotent computations such as LLM completions,
// API responses, or rendered documents.
//
// Entries are addressed by a deterministic fingerprint of the request (see
// the sibling fingerprint package), carry a TTL, and are evicted under a
// pluggable policy when the configured capacity is exceeded. The store keeps
// cumulative counters (hits, misses, evictions, errors) and can forward
// per-request observations to an Observer such as the monitor package.
//
// # Key Features
//
//   - Generic over the cached value type
//   - Deterministic request fingerprinting built in (Get/Set by primary
//     input and options), plus a raw key surface for advanced callers
//   - TTL expiry with lazy removal on access, manual sweeping, and an
//     optional background sweeper goroutine
//   - LRU, LFU, and FIFO eviction with documented deterministic tie-breaks
//   - Cumulative statistics that survive Clear
//   - Optional eviction callback for resource cleanup
//   - Environment-driven configuration via CACHE_* variables
//
// # Usage
//
// Create a cache and use it around an expensive call:
//
//	c, err := cache.New[string](
//		cache.WithMaxSize(500),
//		cache.WithDefaultTTL(time.Hour),
//		cache.WithPolicy(cache.LRU{}),
//	)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	opts := map[string]any{"model": "gpt-4", "temperature": 0.2}
//	if v, ok, err := c.Get(prompt, opts); err != nil {
//		return err // the request could not be fingerprinted
//	} else if ok {
//		return v
//	}
//	v, err := expensiveCall(ctx, prompt, opts)
//	if err != nil {
//		return err
//	}
//	_ = c.Set(prompt, opts, v, 0) // 0 means the configured default TTL
//
// # Capacity and Eviction
//
// MaxSize bounds the number of resident entries. Enforcement is synchronous:
// a Set that pushes the store over capacity evicts victims inside the same
// critical section, so the bound holds at every return from every method.
// Victim selection scans a snapshot of entry metadata taken under the lock;
// the O(n) scan is the deliberate trade-off for policies that need no
// per-policy bookkeeping structures. A MaxSize of 0 disables the bound
// entirely, leaving TTL and sweeping to contain growth.
//
// # Expiry
//
// An entry is live while now - createdAt < ttl. Hits refresh the access
// metadata used by LRU and LFU but never extend the TTL window; overwriting
// a key starts a fresh window. Expired entries are removed when a lookup
// touches them (counting as a miss) or in bulk by SweepExpired, which a
// background sweeper can run on an interval (see WithSweepInterval; Close
// stops it).
//
// # Concurrent Misses
//
// The store intentionally does not deduplicate concurrent misses: two
// goroutines asking for the same absent key will both miss, both run the
// computation, and both Set, with the last write winning. Callers that need
// at-most-one execution per key should layer an in-flight marker (for
// example golang.org/x/sync/singleflight) around the miss path; the cache
// itself stays out of that business so its lock never spans a computation.
//
// # Statistics
//
// Stats returns a point-in-time snapshot of the cumulative counters, the
// current size, and the effective configuration. Clear removes every entry
// but leaves the counters alone, so long-running hit-rate measurements
// survive operational flushes. Per-request latency observation is delegated
// to an Observer (see the monitor package).
package cache
