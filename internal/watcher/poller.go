package watcher

import (
	"context"
	"time"
)

// StartPolling triggers detect() on a fixed interval.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.mu.RLock()
	interval := w.interval
	w.mu.RUnlock()

	w.log.Info("polling config", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.detect()

			w.mu.RLock()
			next := w.interval
			w.mu.RUnlock()
			if next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}
