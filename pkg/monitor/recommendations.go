package monitor

import "time"

// Thresholds the advisory rules are evaluated against.
const (
	lowHitRate      = 0.30
	moderateHitRate = 0.50
	slowHitLatency  = 100 * time.Millisecond
	highCardinality = 1000
	flatTopKeyShare = 0.10
)

// Efficiency status bands.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusFair      = "Fair"
	StatusPoor      = "Poor"
)

// EfficiencyScore returns the session hit rate expressed on a 0-100 scale.
func (m *Monitor) EfficiencyScore() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalRequests == 0 {
		return 0
	}
	return float64(m.hits) / float64(m.totalRequests) * 100
}

// EfficiencyStatus maps the efficiency score to a qualitative band:
// 80 and above Excellent, 60 Good, 40 Fair, anything below Poor.
func (m *Monitor) EfficiencyStatus() string {
	switch score := m.EfficiencyScore(); {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	case score >= 40:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Recommendations evaluates the session against the tuning rules and
// returns advisory lines. The advice never feeds back into cache behavior;
// acting on it is entirely the operator's call.
func (m *Monitor) Recommendations() []string {
	snap := m.Snapshot()

	if snap.TotalRequests == 0 {
		return []string{"No traffic recorded yet - recommendations need at least one request."}
	}

	var recs []string

	if snap.HitRate < lowHitRate {
		recs = append(recs, "Hit rate is low - consider increasing the cache size or TTL.")
	} else if snap.HitRate < moderateHitRate {
		recs = append(recs, "Hit rate is moderate - review the key derivation options; overly specific options fragment the key space.")
	}

	if snap.HitLatency.Avg > slowHitLatency {
		recs = append(recs, "Cache hits are slow - the lookup path or value sizes deserve a look.")
	}

	if snap.UniqueKeys > highCardinality {
		recs = append(recs, "High key cardinality - consider normalizing requests into coarser fingerprints.")
	}

	if share := topKeyShare(snap); share > 0 && share < flatTopKeyShare {
		recs = append(recs, "Access pattern is flat - pre-warming the hottest keys will not help much.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Cache performance looks good.")
	}
	return recs
}

// topKeyShare returns the fraction of all requests going to the single most
// requested key, or 0 when the table is empty.
func topKeyShare(snap Snapshot) float64 {
	if len(snap.TopKeys) == 0 || snap.TotalRequests == 0 {
		return 0
	}
	return float64(snap.TopKeys[0].Requests) / float64(snap.TotalRequests)
}
