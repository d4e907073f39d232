package monitor

import (
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/respcache/pkg/cache"
	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

const (
	// DefaultSampleSize is the per-outcome latency window used for
	// percentile calculation.
	DefaultSampleSize = 1024

	// DefaultPercentile is reported in latency summaries.
	DefaultPercentile = 0.95

	// DefaultTopKeys is how many per-key rows a Snapshot includes.
	DefaultTopKeys = 5
)

// Monitor aggregates per-request cache observations into session statistics.
// Safe for concurrent use. Construct with New.
type Monitor struct {
	cfg config

	mu            sync.RWMutex
	sessionID     string
	startedAt     time.Time
	totalRequests uint64
	hits          uint64
	misses        uint64
	errs          uint64
	hitLatency    latencyRing
	missLatency   latencyRing
	keys          map[fingerprint.Key]*keyCounters
	lastSize      int
	maxSize       int
}

type keyCounters struct {
	requests     uint64
	hits         uint64
	misses       uint64
	totalLatency time.Duration
	lastSeen     time.Time
}

// KeyStats is one row of the per-key request table.
type KeyStats struct {
	Key        fingerprint.Key `json:"key"`
	Requests   uint64          `json:"requests"`
	Hits       uint64          `json:"hits"`
	Misses     uint64          `json:"misses"`
	AvgLatency time.Duration   `json:"avg_latency"`
	LastSeen   time.Time       `json:"last_seen"`
}

// LatencySummary aggregates the latencies of one outcome. Avg is exact over
// the whole session; P95 is nearest-rank over the recent sample window.
type LatencySummary struct {
	Avg     time.Duration `json:"avg"`
	P95     time.Duration `json:"p95"`
	Samples uint64        `json:"samples"`
}

// Snapshot is a point-in-time view of the session.
type Snapshot struct {
	SessionID         string         `json:"session_id"`
	Uptime            time.Duration  `json:"uptime"`
	TotalRequests     uint64         `json:"total_requests"`
	Hits              uint64         `json:"hits"`
	Misses            uint64         `json:"misses"`
	Errors            uint64         `json:"errors"`
	HitRate           float64        `json:"hit_rate"`
	RequestsPerSecond float64        `json:"requests_per_second"`
	HitLatency        LatencySummary `json:"hit_latency"`
	MissLatency       LatencySummary `json:"miss_latency"`
	StoreSize         int            `json:"store_size"`
	MaxStoreSize      int            `json:"max_store_size"`
	UniqueKeys        int            `json:"unique_keys"`
	TopKeys           []KeyStats     `json:"top_keys"`
}

type config struct {
	sampleSize int
	percentile float64
	topKeys    int
}

// Option configures a Monitor.
type Option func(*config)

// WithSampleSize sets the per-outcome latency window used for percentiles.
// Values below 1 keep the default.
func WithSampleSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithPercentile sets the reported latency percentile, e.g. 0.99.
// Values outside (0, 1) keep the default.
func WithPercentile(p float64) Option {
	return func(c *config) {
		if p > 0 && p < 1 {
			c.percentile = p
		}
	}
}

// WithTopKeys sets how many per-key rows a Snapshot includes.
// Values below 1 keep the default.
func WithTopKeys(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.topKeys = n
		}
	}
}

// New creates a Monitor with a fresh session id.
func New(opts ...Option) *Monitor {
	cfg := config{
		sampleSize: DefaultSampleSize,
		percentile: DefaultPercentile,
		topKeys:    DefaultTopKeys,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Monitor{
		cfg:         cfg,
		sessionID:   uuid.NewString(),
		startedAt:   time.Now(),
		hitLatency:  newLatencyRing(cfg.sampleSize),
		missLatency: newLatencyRing(cfg.sampleSize),
		keys:        make(map[fingerprint.Key]*keyCounters),
	}
}

// Record adds one observation. Error outcomes carry no usable key (the
// request could not be fingerprinted), so they only advance the error and
// request counters.
func (m *Monitor) Record(key fingerprint.Key, outcome cache.Outcome, latency time.Duration, storeSize int) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	m.lastSize = storeSize
	if storeSize > m.maxSize {
		m.maxSize = storeSize
	}

	switch outcome {
	case cache.OutcomeHit:
		m.hits++
		m.hitLatency.add(latency)
	case cache.OutcomeMiss:
		m.misses++
		m.missLatency.add(latency)
	case cache.OutcomeError:
		m.errs++
		return
	}

	kc, ok := m.keys[key]
	if !ok {
		kc = &keyCounters{}
		m.keys[key] = kc
	}
	kc.requests++
	if outcome == cache.OutcomeHit {
		kc.hits++
	} else {
		kc.misses++
	}
	kc.totalLatency += latency
	kc.lastSeen = now
}

// Observe implements cache.Observer.
func (m *Monitor) Observe(key fingerprint.Key, outcome cache.Outcome, latency time.Duration, size int) {
	m.Record(key, outcome, latency, size)
}

// SessionID returns the id assigned at construction or by the last Reset.
func (m *Monitor) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// Snapshot returns the current session statistics.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.startedAt)
	s := Snapshot{
		SessionID:     m.sessionID,
		Uptime:        uptime,
		TotalRequests: m.totalRequests,
		Hits:          m.hits,
		Misses:        m.misses,
		Errors:        m.errs,
		HitLatency:    m.hitLatency.summary(m.cfg.percentile),
		MissLatency:   m.missLatency.summary(m.cfg.percentile),
		StoreSize:     m.lastSize,
		MaxStoreSize:  m.maxSize,
		UniqueKeys:    len(m.keys),
		TopKeys:       m.topKeysLocked(m.cfg.topKeys),
	}
	if m.totalRequests > 0 {
		s.HitRate = float64(m.hits) / float64(m.totalRequests)
	}
	if secs := uptime.Seconds(); secs > 0 {
		s.RequestsPerSecond = float64(m.totalRequests) / secs
	}
	return s
}

// TopKeys returns up to n rows of the per-key table, most requested first.
func (m *Monitor) TopKeys(n int) []KeyStats {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topKeysLocked(n)
}

// Must be called with at least a read lock held.
func (m *Monitor) topKeysLocked(n int) []KeyStats {
	rows := make([]KeyStats, 0, len(m.keys))
	for k, kc := range m.keys {
		row := KeyStats{
			Key:      k,
			Requests: kc.requests,
			Hits:     kc.hits,
			Misses:   kc.misses,
			LastSeen: kc.lastSeen,
		}
		if kc.requests > 0 {
			row.AvgLatency = time.Duration(int64(kc.totalLatency) / int64(kc.requests))
		}
		rows = append(rows, row)
	}

	// Order by request count, then by key for a stable listing.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Requests != rows[j].Requests {
			return rows[i].Requests > rows[j].Requests
		}
		return rows[i].Key.String() < rows[j].Key.String()
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Reset clears all counters and tables and starts a new session.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessionID = uuid.NewString()
	m.startedAt = time.Now()
	m.totalRequests = 0
	m.hits = 0
	m.misses = 0
	m.errs = 0
	m.hitLatency = newLatencyRing(m.cfg.sampleSize)
	m.missLatency = newLatencyRing(m.cfg.sampleSize)
	m.keys = make(map[fingerprint.Key]*keyCounters)
	m.lastSize = 0
	m.maxSize = 0
}

// latencyRing keeps an exact running sum for averages and a bounded window
// of recent samples for percentiles.
type latencyRing struct {
	samples []time.Duration
	next    int
	filled  int
	sum     time.Duration
	count   uint64
}

func newLatencyRing(size int) latencyRing {
	return latencyRing{samples: make([]time.Duration, size)}
}

func (r *latencyRing) add(d time.Duration) {
	r.sum += d
	r.count++
	r.samples[r.next] = d
	r.next = (r.next + 1) % len(r.samples)
	if r.filled < len(r.samples) {
		r.filled++
	}
}

func (r *latencyRing) summary(percentile float64) LatencySummary {
	s := LatencySummary{Samples: r.count}
	if r.count > 0 {
		s.Avg = time.Duration(int64(r.sum) / int64(r.count))
	}
	s.P95 = r.rank(percentile)
	return s
}

// rank computes the nearest-rank percentile over the current window.
func (r *latencyRing) rank(percentile float64) time.Duration {
	if r.filled == 0 {
		return 0
	}
	window := make([]time.Duration, r.filled)
	copy(window, r.samples[:r.filled])
	slices.Sort(window)
	if r.filled == 1 {
		return window[0]
	}
	idx := int(math.Ceil(percentile*float64(r.filled))) - 1
	return window[idx]
}
