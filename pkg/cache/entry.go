package cache

import (
	"time"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

// entry holds a cached value and the metadata eviction policies work with.
type entry[V any] struct {
	value          V
	createdAt      time.Time
	lastAccessedAt time.Time
	accessCount    int
	ttl            time.Duration
	seq            uint64 // Insertion sequence used for deterministic tie-breaking
}

// expired reports whether the entry's TTL window has passed at the given time.
func (e *entry[V]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) >= e.ttl
}

// Snapshot is a read-only view of a resident entry, used for persistence
// dumps and diagnostics.
type Snapshot[V any] struct {
	Key            fingerprint.Key
	Value          V
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int
	TTL            time.Duration
	Age            time.Duration
}
