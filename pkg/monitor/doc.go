// Package monitor tracks how well a response cache is performing.
//
// A Monitor consumes one observation per cache request (hit, miss, or
// fingerprinting error, with the measured latency and the store size at that
// moment) and aggregates them into a session snapshot: hit rate, request
// throughput, latency averages and percentiles split by outcome, and a
// per-key table of the hottest requests. On top of the raw numbers it
// computes an efficiency score and a set of purely advisory tuning
// recommendations; nothing here ever feeds back into cache behavior.
//
// The Monitor implements the cache package's Observer interface, so wiring
// is a single option:
//
//	mon := monitor.New()
//	c, err := cache.New[string](cache.WithObserver(mon))
//	if err != nil {
//		return err
//	}
//
//	// ... serve traffic ...
//
//	snap := mon.Snapshot()
//	log.Printf("session %s: %.0f%% hits, p95 hit latency %s",
//		snap.SessionID, snap.HitRate*100, snap.HitLatency.P95)
//	for _, line := range mon.Recommendations() {
//		log.Println(line)
//	}
//
// Latency averages are exact over the whole session, while percentiles are
// computed with the nearest-rank method over a bounded window of recent
// samples (1024 per outcome by default) so memory stays flat under
// long-running traffic. The per-key table grows with the key space; the
// recommendation rules flag runaway cardinality instead of silently
// dropping data.
//
// The Monitor uses its own read-write lock and never calls back into the
// cache, keeping the cache's critical sections free of monitoring costs
// beyond a method call.
package monitor
