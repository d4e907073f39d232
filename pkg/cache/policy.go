package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/respcache/pkg/fingerprint"
)

// Candidate is the per-entry metadata a Policy chooses victims from. The
// slice passed to Victim is a snapshot taken under the store lock; policies
// must treat it as read-only and must not call back into the store.
type Candidate struct {
	Key            fingerprint.Key
	CreatedAt      time.Time
	LastAccessedAt time.Time
	AccessCount    int
	Seq            uint64 // Insertion sequence; lower means inserted earlier
}

// Policy selects which entry to evict when the store is over capacity.
// Implementations must be stateless and deterministic: given the same
// candidates, Victim returns the same key.
type Policy interface {
	// Victim returns the key to evict. Called with at least one candidate.
	Victim(candidates []Candidate) fingerprint.Key

	// String returns the policy name as reported by Stats.
	String() string
}

// LRU evicts the entry with the oldest last access, falling back to
// insertion order when access times are equal.
type LRU struct{}

func (LRU) Victim(candidates []Candidate) fingerprint.Key {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.LastAccessedAt.Before(best.LastAccessedAt):
			best = c
		case c.LastAccessedAt.Equal(best.LastAccessedAt) && c.Seq < best.Seq:
			best = c
		}
	}
	return best.Key
}

func (LRU) String() string { return "lru" }

// LFU evicts the entry with the smallest access count, falling back to the
// oldest last access and then to insertion order.
type LFU struct{}

func (LFU) Victim(candidates []Candidate) fingerprint.Key {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.AccessCount < best.AccessCount:
			best = c
		case c.AccessCount == best.AccessCount && c.LastAccessedAt.Before(best.LastAccessedAt):
			best = c
		case c.AccessCount == best.AccessCount && c.LastAccessedAt.Equal(best.LastAccessedAt) && c.Seq < best.Seq:
			best = c
		}
	}
	return best.Key
}

func (LFU) String() string { return "lfu" }

// FIFO evicts the entry created earliest, ignoring access entirely.
// Overwriting a key re-creates the entry and moves it to the back of the
// queue.
type FIFO struct{}

func (FIFO) Victim(candidates []Candidate) fingerprint.Key {
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.CreatedAt.Before(best.CreatedAt):
			best = c
		case c.CreatedAt.Equal(best.CreatedAt) && c.Seq < best.Seq:
			best = c
		}
	}
	return best.Key
}

func (FIFO) String() string { return "fifo" }

// ParsePolicy maps a policy name to its implementation. Names are matched
// case-insensitively; anything but "lru", "lfu", or "fifo" is rejected.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lru":
		return LRU{}, nil
	case "lfu":
		return LFU{}, nil
	case "fifo":
		return FIFO{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
