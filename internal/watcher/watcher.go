// Package watcher monitors the zone configuration directory and
// requests a backup run when its contents change.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/config"
	"github.com/raoulx24/zonecfg-archiver/internal/fsprobe"
	"github.com/raoulx24/zonecfg-archiver/internal/mailbox"
	"github.com/raoulx24/zonecfg-archiver/internal/runner"
)

// Watcher observes the zone configuration directory and coalesces
// change bursts into single run requests through the mailbox.
type Watcher struct {
	dir      string
	mode     string
	interval time.Duration
	debounce time.Duration

	log *zap.Logger
	mb  *mailbox.Mailbox[runner.Job]

	mu       sync.Mutex
	lastSeen time.Time
}

// New creates a watcher from the watch configuration.
func New(cfg config.WatchConfig, log *zap.Logger, mb *mailbox.Mailbox[runner.Job]) *Watcher {
	return &Watcher{
		dir:      cfg.Dir,
		mode:     cfg.Mode,
		interval: cfg.PollInterval.Std(),
		debounce: cfg.DebounceWindow.Std(),
		log:      log,
		mb:       mb,
	}
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.startFsNotify(ctx)

	case "poll":
		w.startPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(w.dir)
		if res.FsnotifySupported {
			return w.startFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, falling back to polling", zap.String("reason", res.Reason))
		w.startPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown watch mode %q", w.mode)
	}
}

// request asks the runner loop for a backup run. The mailbox keeps at
// most one pending request, so repeated triggers collapse.
func (w *Watcher) request(trigger string) {
	w.mb.Put(runner.Job{Trigger: trigger, Time: time.Now()})
	w.log.Debug("backup run requested", zap.String("trigger", trigger))
}
