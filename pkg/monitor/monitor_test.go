package monitor_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/respcache/pkg/cache"
	"github.com/dmitrymomot/respcache/pkg/fingerprint"
	"github.com/dmitrymomot/respcache/pkg/monitor"
)

// Compile-time check that the monitor plugs into the cache's observer seam.
var _ cache.Observer = (*monitor.Monitor)(nil)

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("aggregates outcomes", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		hot := fingerprint.MustDerive("hot", nil)
		cold := fingerprint.MustDerive("cold", nil)

		mon.Record(hot, cache.OutcomeHit, 2*time.Millisecond, 10)
		mon.Record(hot, cache.OutcomeHit, 4*time.Millisecond, 10)
		mon.Record(cold, cache.OutcomeMiss, 50*time.Millisecond, 11)
		mon.Record(fingerprint.Key{}, cache.OutcomeError, 0, 11)

		snap := mon.Snapshot()
		assert.Equal(t, uint64(4), snap.TotalRequests)
		assert.Equal(t, uint64(2), snap.Hits)
		assert.Equal(t, uint64(1), snap.Misses)
		assert.Equal(t, uint64(1), snap.Errors)
		assert.Equal(t, 0.5, snap.HitRate)
		assert.Equal(t, 11, snap.StoreSize)
		assert.Equal(t, 11, snap.MaxStoreSize)
		assert.Equal(t, 2, snap.UniqueKeys, "error outcomes carry no key")
	})

	t.Run("tracks the largest observed store", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		k := fingerprint.MustDerive("k", nil)

		mon.Record(k, cache.OutcomeHit, time.Millisecond, 5)
		mon.Record(k, cache.OutcomeHit, time.Millisecond, 90)
		mon.Record(k, cache.OutcomeHit, time.Millisecond, 12)

		snap := mon.Snapshot()
		assert.Equal(t, 12, snap.StoreSize)
		assert.Equal(t, 90, snap.MaxStoreSize)
	})
}

func TestLatencySummaries(t *testing.T) {
	t.Parallel()

	t.Run("average is exact", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		k := fingerprint.MustDerive("k", nil)
		for _, d := range []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 6 * time.Millisecond} {
			mon.Record(k, cache.OutcomeHit, d, 1)
		}

		snap := mon.Snapshot()
		assert.Equal(t, 4*time.Millisecond, snap.HitLatency.Avg)
		assert.Equal(t, uint64(3), snap.HitLatency.Samples)
		assert.Zero(t, snap.MissLatency.Avg, "misses were never recorded")
	})

	t.Run("p95 uses nearest rank", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		k := fingerprint.MustDerive("k", nil)
		for i := 1; i <= 20; i++ {
			mon.Record(k, cache.OutcomeMiss, time.Duration(i)*time.Millisecond, 1)
		}

		// ceil(0.95 * 20) = 19, so the 19th smallest sample.
		assert.Equal(t, 19*time.Millisecond, mon.Snapshot().MissLatency.P95)
	})

	t.Run("single sample is its own percentile", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New()
		mon.Record(fingerprint.MustDerive("k", nil), cache.OutcomeHit, 7*time.Millisecond, 1)

		assert.Equal(t, 7*time.Millisecond, mon.Snapshot().HitLatency.P95)
	})

	t.Run("no samples means zero", func(t *testing.T) {
		t.Parallel()

		snap := monitor.New().Snapshot()
		assert.Zero(t, snap.HitLatency.P95)
		assert.Zero(t, snap.HitLatency.Avg)
	})

	t.Run("percentile window is bounded but the average is not", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New(monitor.WithSampleSize(4))
		k := fingerprint.MustDerive("k", nil)
		for i := 1; i <= 10; i++ {
			mon.Record(k, cache.OutcomeHit, time.Duration(i)*time.Millisecond, 1)
		}

		snap := mon.Snapshot()
		// Window holds 7..10ms; ceil(0.95*4)=4 -> the largest.
		assert.Equal(t, 10*time.Millisecond, snap.HitLatency.P95)
		// Average covers all ten samples: 55ms / 10.
		assert.Equal(t, 5500*time.Microsecond, snap.HitLatency.Avg)
		assert.Equal(t, uint64(10), snap.HitLatency.Samples)
	})

	t.Run("configurable percentile", func(t *testing.T) {
		t.Parallel()

		mon := monitor.New(monitor.WithPercentile(0.5))
		k := fingerprint.MustDerive("k", nil)
		for i := 1; i <= 10; i++ {
			mon.Record(k, cache.OutcomeHit, time.Duration(i)*time.Millisecond, 1)
		}

		// ceil(0.5 * 10) = 5, so the 5th smallest sample.
		assert.Equal(t, 5*time.Millisecond, mon.Snapshot().HitLatency.P95)
	})
}

func TestTopKeys(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	a := fingerprint.MustDerive("a", nil)
	b := fingerprint.MustDerive("b", nil)
	c := fingerprint.MustDerive("c", nil)

	for range 3 {
		mon.Record(a, cache.OutcomeHit, 2*time.Millisecond, 1)
	}
	for range 2 {
		mon.Record(b, cache.OutcomeMiss, 2*time.Millisecond, 1)
	}
	mon.Record(c, cache.OutcomeHit, 2*time.Millisecond, 1)

	rows := mon.TopKeys(2)
	require.Len(t, rows, 2)
	assert.Equal(t, a, rows[0].Key)
	assert.Equal(t, uint64(3), rows[0].Requests)
	assert.Equal(t, uint64(3), rows[0].Hits)
	assert.Equal(t, b, rows[1].Key)
	assert.Equal(t, uint64(2), rows[1].Misses)

	assert.Empty(t, mon.TopKeys(0))
	assert.Len(t, mon.TopKeys(10), 3, "asking for more rows than keys returns them all")

	assert.Equal(t, 2*time.Millisecond, rows[0].AvgLatency)
}

func TestSnapshotThroughput(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	k := fingerprint.MustDerive("k", nil)
	for range 50 {
		mon.Record(k, cache.OutcomeHit, time.Millisecond, 1)
	}

	snap := mon.Snapshot()
	assert.Positive(t, snap.RequestsPerSecond)
	assert.Positive(t, snap.Uptime)
}

func TestSessionID(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	id := mon.SessionID()

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, mon.Snapshot().SessionID)
}

func TestReset(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	k := fingerprint.MustDerive("k", nil)
	mon.Record(k, cache.OutcomeHit, time.Millisecond, 3)
	mon.Record(k, cache.OutcomeMiss, time.Millisecond, 3)

	before := mon.SessionID()
	mon.Reset()

	snap := mon.Snapshot()
	assert.Zero(t, snap.TotalRequests)
	assert.Zero(t, snap.Hits)
	assert.Zero(t, snap.UniqueKeys)
	assert.Zero(t, snap.MaxStoreSize)
	assert.Empty(t, snap.TopKeys)
	assert.NotEqual(t, before, snap.SessionID, "reset starts a new session")
}

func TestObservesCacheTraffic(t *testing.T) {
	t.Parallel()

	mon := monitor.New()
	c, err := cache.New[string](cache.WithObserver(mon))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set("present", nil, "v", 0))
	for _, primary := range []string{"present", "absent", "present"} {
		_, _, err := c.Get(primary, nil)
		require.NoError(t, err)
	}
	_, _, err = c.Get("bad", map[string]any{"ch": make(chan int)})
	require.Error(t, err)

	snap := mon.Snapshot()
	stats := c.Stats()
	assert.Equal(t, stats.TotalRequests, snap.TotalRequests)
	assert.Equal(t, stats.Hits, snap.Hits)
	assert.Equal(t, stats.Misses, snap.Misses)
	assert.Equal(t, stats.Errors, snap.Errors)
	assert.Equal(t, stats.Size, snap.StoreSize)
}

func TestMonitor_ConcurrentSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	mon := monitor.New()

	goroutines := 8
	recordsPerGoroutine := 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := range goroutines {
		go func(id int) {
			defer wg.Done()
			for i := range recordsPerGoroutine {
				key := fingerprint.MustDerive(fmt.Sprintf("k-%d", i%16), nil)
				outcome := cache.OutcomeHit
				if i%2 == 0 {
					outcome = cache.OutcomeMiss
				}
				mon.Record(key, outcome, time.Millisecond, id)
				if i%100 == 0 {
					_ = mon.Snapshot()
				}
			}
		}(g)
	}

	wg.Wait()

	snap := mon.Snapshot()
	assert.Equal(t, uint64(goroutines*recordsPerGoroutine), snap.TotalRequests)
	assert.Equal(t, snap.TotalRequests, snap.Hits+snap.Misses)
	assert.Equal(t, 16, snap.UniqueKeys)
}
