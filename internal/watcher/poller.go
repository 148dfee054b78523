package watcher

import (
	"context"
	"time"
)

// startPolling triggers change detection on a fixed interval.
func (w *Watcher) startPolling(ctx context.Context) {
	// prime lastSeen so an unchanged directory does not trigger a run
	// right after startup
	w.detect(false)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.detect(true)
		}
	}
}
