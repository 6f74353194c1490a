package cache

import (
	"time"

	"github.com/chainguard-dev/clog"
)

// expiryLoop periodically scans and removes expired entries.
//
// A ticker-based full scan avoids per-entry goroutines/timers, at the price
// of an O(n) sweep per tick.
func (c *Cache[K, V]) expiryLoop() {
	defer c.wg.Done()

	log := clog.FromContext(c.ctx)
	ticker := time.NewTicker(c.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			log.Debug("Cache expiry loop stopped")
			return
		case now := <-ticker.C:
			c.mu.Lock()
			// If Close raced with the ticker, still safe: Close cancels ctx, notifies loop.
			removed := c.deleteExpiredLocked(now)
			c.observeLenLocked()
			c.mu.Unlock()
			if removed > 0 {
				log.Debugf("Expired %d cache entries", removed)
			}
		}
	}
}
