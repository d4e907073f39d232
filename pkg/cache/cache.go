package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
	"github.com/dmitrymomot/respcache/pkg/logging"
)

const (
	// DefaultMaxSize bounds the store when no explicit size is configured.
	DefaultMaxSize = 1000

	// DefaultTTL applies when neither the configuration nor the call
	// provides one.
	DefaultTTL = time.Hour
)

// Cache is a bounded, thread-safe store for the results of expensive
// idempotent computations. The zero value is not usable; construct with New.
type Cache[V any] struct {
	cfg config

	mu      sync.Mutex
	entries map[fingerprint.Key]*entry[V]
	seq     uint64
	onEvict func(key fingerprint.Key, value V)

	totalRequests uint64
	hits          uint64
	misses        uint64
	evictions     uint64
	errs          uint64

	startedAt time.Time
	stopSweep chan struct{}
}

// removal captures an entry deleted while the lock was held so callbacks
// and logging can run after release.
type removal[V any] struct {
	key    fingerprint.Key
	value  V
	reason string
}

// New creates a cache for values of type V. Without options it holds up to
// DefaultMaxSize entries with DefaultTTL under LRU eviction and no
// background sweeper.
func New[V any](opts ...Option) (*Cache[V], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Cache[V]{
		cfg:       cfg,
		entries:   make(map[fingerprint.Key]*entry[V]),
		startedAt: time.Now(),
		stopSweep: make(chan struct{}),
	}

	// Start background sweeper only if an interval is set
	if cfg.sweepInterval > 0 {
		go c.sweepLoop()
	}

	return c, nil
}

// SetEvictCallback sets a callback invoked after an entry leaves the store
// through capacity eviction, expiry, or Clear. Invalidate does not trigger
// it: the caller asked for that removal. The callback runs outside the
// store's critical section.
func (c *Cache[V]) SetEvictCallback(fn func(key fingerprint.Key, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns the cached value for the request described by its primary
// input and options. Expired entries are removed on access and reported as
// misses. A fingerprinting failure is returned as an error, never as a
// miss, since the request identity is undefined.
func (c *Cache[V]) Get(primary string, options map[string]any) (V, bool, error) {
	start := time.Now()
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		c.mu.Lock()
		c.totalRequests++
		c.errs++
		size := len(c.entries)
		obs := c.cfg.observer
		c.mu.Unlock()

		if c.cfg.logger != nil {
			c.cfg.logger.Error("request fingerprinting failed", logging.Error(err))
		}
		if obs != nil {
			obs.Observe(fingerprint.Key{}, OutcomeError, time.Since(start), size)
		}
		var zero V
		return zero, false, err
	}
	v, ok := c.lookup(key, start)
	return v, ok, nil
}

// GetKey is the raw-key variant of Get for callers that derived the key
// themselves.
func (c *Cache[V]) GetKey(key fingerprint.Key) (V, bool) {
	return c.lookup(key, time.Now())
}

func (c *Cache[V]) lookup(key fingerprint.Key, start time.Time) (V, bool) {
	c.mu.Lock()
	c.totalRequests++
	now := time.Now()

	var removals []removal[V]
	e, ok := c.entries[key]
	if ok && e.expired(now) {
		delete(c.entries, key)
		removals = append(removals, removal[V]{key: key, value: e.value, reason: "expired"})
		ok = false
	}

	if !ok {
		c.misses++
		size := len(c.entries)
		cb, log, obs := c.onEvict, c.cfg.logger, c.cfg.observer
		c.mu.Unlock()

		c.finishRemovals(cb, log, removals)
		if obs != nil {
			obs.Observe(key, OutcomeMiss, time.Since(start), size)
		}
		var zero V
		return zero, false
	}

	e.lastAccessedAt = now
	e.accessCount++
	c.hits++
	v := e.value
	size := len(c.entries)
	obs := c.cfg.observer
	c.mu.Unlock()

	if obs != nil {
		obs.Observe(key, OutcomeHit, time.Since(start), size)
	}
	return v, true
}

// Set stores the result of the request described by its primary input and
// options. A zero ttl means the configured default. Storing may evict other
// entries; the capacity bound holds before Set returns.
func (c *Cache[V]) Set(primary string, options map[string]any, value V, ttl time.Duration) error {
	start := time.Now()
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		c.mu.Lock()
		c.errs++
		size := len(c.entries)
		obs := c.cfg.observer
		c.mu.Unlock()

		if c.cfg.logger != nil {
			c.cfg.logger.Error("request fingerprinting failed", logging.Error(err))
		}
		if obs != nil {
			obs.Observe(fingerprint.Key{}, OutcomeError, time.Since(start), size)
		}
		return err
	}
	c.SetKey(key, value, ttl)
	return nil
}

// SetKey is the raw-key variant of Set. Overwriting an existing key starts
// a fresh TTL window and resets its access metadata.
func (c *Cache[V]) SetKey(key fingerprint.Key, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.defaultTTL
	}

	c.mu.Lock()
	now := time.Now()
	c.seq++
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.createdAt = now
		e.lastAccessedAt = now
		e.accessCount = 1
		e.ttl = ttl
		e.seq = c.seq
	} else {
		c.entries[key] = &entry[V]{
			value:          value,
			createdAt:      now,
			lastAccessedAt: now,
			accessCount:    1,
			ttl:            ttl,
			seq:            c.seq,
		}
	}
	removals := c.enforceCapacity()
	cb, log := c.onEvict, c.cfg.logger
	c.mu.Unlock()

	c.finishRemovals(cb, log, removals)
}

// Invalidate removes the entry for the given request and reports whether it
// existed.
func (c *Cache[V]) Invalidate(primary string, options map[string]any) (bool, error) {
	key, err := fingerprint.Derive(primary, options)
	if err != nil {
		c.mu.Lock()
		c.errs++
		c.mu.Unlock()
		return false, err
	}
	return c.InvalidateKey(key), nil
}

// InvalidateKey is the raw-key variant of Invalidate.
func (c *Cache[V]) InvalidateKey(key fingerprint.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

// Clear removes every entry and returns how many were removed. Cumulative
// counters are deliberately left intact so long-running hit-rate
// measurements survive operational flushes.
func (c *Cache[V]) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	var removals []removal[V]
	if c.onEvict != nil {
		removals = make([]removal[V], 0, n)
		for k, e := range c.entries {
			removals = append(removals, removal[V]{key: k, value: e.value, reason: "cleared"})
		}
	}
	c.entries = make(map[fingerprint.Key]*entry[V])
	cb := c.onEvict
	c.mu.Unlock()

	c.finishRemovals(cb, nil, removals)
	if c.cfg.logger != nil {
		c.cfg.logger.Info("cache cleared", slog.Int("removed", n))
	}
	return n
}

// SweepExpired removes every expired entry and returns how many were
// removed. Sweep removals do not count as evictions.
func (c *Cache[V]) SweepExpired() int {
	c.mu.Lock()
	now := time.Now()
	var removals []removal[V]
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			removals = append(removals, removal[V]{key: k, value: e.value, reason: "expired"})
		}
	}
	cb, log := c.onEvict, c.cfg.logger
	c.mu.Unlock()

	c.finishRemovals(cb, log, removals)
	return len(removals)
}

// Len returns the current number of resident entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cumulative counters and effective
// configuration.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		TotalRequests: c.totalRequests,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		Errors:        c.errs,
		Size:          len(c.entries),
		MaxSize:       c.cfg.maxSize,
		Policy:        c.cfg.policy.String(),
		DefaultTTL:    c.cfg.defaultTTL,
		Uptime:        time.Since(c.startedAt),
	}
	if c.totalRequests > 0 {
		s.HitRate = float64(c.hits) / float64(c.totalRequests)
	}
	return s
}

// Entries returns a snapshot of all live entries, in no particular order.
// Expired entries are skipped but not removed; use SweepExpired for that.
func (c *Cache[V]) Entries() []Snapshot[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	out := make([]Snapshot[V], 0, len(c.entries))
	for k, e := range c.entries {
		if e.expired(now) {
			continue
		}
		out = append(out, Snapshot[V]{
			Key:            k,
			Value:          e.value,
			CreatedAt:      e.createdAt,
			LastAccessedAt: e.lastAccessedAt,
			AccessCount:    e.accessCount,
			TTL:            e.ttl,
			Age:            now.Sub(e.createdAt),
		})
	}
	return out
}

// Restore seeds an entry while preserving its original creation time, so a
// persisted record continues its TTL window instead of starting a new one.
// Already-expired input is rejected with ErrExpiredEntry. Restoring may
// evict other entries to keep the capacity bound.
func (c *Cache[V]) Restore(key fingerprint.Key, value V, createdAt time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.cfg.defaultTTL
	}
	now := time.Now()
	if now.Sub(createdAt) >= ttl {
		return fmt.Errorf("%w: created %s ago with ttl %s", ErrExpiredEntry, now.Sub(createdAt), ttl)
	}

	c.mu.Lock()
	c.seq++
	c.entries[key] = &entry[V]{
		value:          value,
		createdAt:      createdAt,
		lastAccessedAt: createdAt,
		accessCount:    1,
		ttl:            ttl,
		seq:            c.seq,
	}
	removals := c.enforceCapacity()
	cb, log := c.onEvict, c.cfg.logger
	c.mu.Unlock()

	c.finishRemovals(cb, log, removals)
	return nil
}

// enforceCapacity evicts entries until the store fits its bound.
// Must be called with lock held.
func (c *Cache[V]) enforceCapacity() []removal[V] {
	if c.cfg.maxSize <= 0 {
		return nil
	}
	var removals []removal[V]
	for len(c.entries) > c.cfg.maxSize {
		cands := c.candidates()
		victim := c.cfg.policy.Victim(cands)
		e, ok := c.entries[victim]
		if !ok {
			// A policy returning a key we do not hold would stall the
			// loop. Correct with LRU selection and keep the bound.
			if c.cfg.logger != nil {
				c.cfg.logger.Error("eviction policy returned unknown key, corrected",
					logging.Policy(c.cfg.policy.String()),
					logging.Key(victim))
			}
			victim = LRU{}.Victim(cands)
			e = c.entries[victim]
		}
		delete(c.entries, victim)
		c.evictions++
		removals = append(removals, removal[V]{key: victim, value: e.value, reason: "evicted"})
	}
	return removals
}

// candidates builds the metadata snapshot handed to the eviction policy.
// Must be called with lock held.
func (c *Cache[V]) candidates() []Candidate {
	cands := make([]Candidate, 0, len(c.entries))
	for k, e := range c.entries {
		cands = append(cands, Candidate{
			Key:            k,
			CreatedAt:      e.createdAt,
			LastAccessedAt: e.lastAccessedAt,
			AccessCount:    e.accessCount,
			Seq:            e.seq,
		})
	}
	return cands
}

// finishRemovals runs the eviction callback and removal logging for entries
// deleted while the lock was held. Runs after release so the callback may
// touch the cache again.
func (c *Cache[V]) finishRemovals(cb func(fingerprint.Key, V), log *slog.Logger, removals []removal[V]) {
	for _, r := range removals {
		if cb != nil {
			cb(r.key, r.value)
		}
		if log != nil {
			log.Debug("cache entry removed",
				logging.Key(r.key),
				logging.Reason(r.reason))
		}
	}
}
