package cache

import (
	"time"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

// Outcome classifies a single cache request for observation purposes.
type Outcome string

const (
	// OutcomeHit means the request was served from the store.
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means the key was absent or expired.
	OutcomeMiss Outcome = "miss"
	// OutcomeError means the request could not be fingerprinted.
	OutcomeError Outcome = "error"
)

// Observer receives one call per cache request with the measured operation
// latency and the store size after the operation. Implementations must be
// safe for concurrent use and must not call back into the cache. On
// OutcomeError the key is the zero Key, since derivation failed.
type Observer interface {
	Observe(key fingerprint.Key, outcome Outcome, latency time.Duration, size int)
}

// Stats is a point-in-time snapshot of the store's cumulative counters and
// effective configuration. Counters are monotonic for the lifetime of the
// cache; Clear does not reset them.
type Stats struct {
	TotalRequests uint64        `json:"total_requests"` // Get calls: hits + misses + derivation errors
	Hits          uint64        `json:"hits"`
	Misses        uint64        `json:"misses"`
	Evictions     uint64        `json:"evictions"` // Capacity evictions only; sweeps and Clear do not count
	Errors        uint64        `json:"errors"`
	HitRate       float64       `json:"hit_rate"` // Hits / TotalRequests, 0 when no requests yet
	Size          int           `json:"size"`
	MaxSize       int           `json:"max_size"` // 0 means the capacity bound is disabled
	Policy        string        `json:"eviction_policy"`
	DefaultTTL    time.Duration `json:"default_ttl"`
	Uptime        time.Duration `json:"uptime"`
}
