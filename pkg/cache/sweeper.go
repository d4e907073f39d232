package cache

import "time"

// sweepLoop runs periodically to remove expired entries.
func (c *Cache[V]) sweepLoop() {
	ticker := time.NewTicker(c.cfg.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.SweepExpired()
		case <-c.stopSweep:
			return
		}
	}
}

// Close stops the background sweeper goroutine. Safe to call multiple times.
func (c *Cache[V]) Close() {
	select {
	case <-c.stopSweep:
		// Already closed
	default:
		close(c.stopSweep)
	}
}
