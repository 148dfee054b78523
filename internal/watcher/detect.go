package watcher

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// detect scans the watched directory and requests a run when any
// entry's mtime moved past the last observed one.
func (w *Watcher) detect(trigger bool) {
	newest, ok := w.newestModTime()
	if !ok {
		return
	}

	w.mu.Lock()
	changed := newest.After(w.lastSeen)
	if changed {
		w.lastSeen = newest
	}
	w.mu.Unlock()

	if changed && trigger {
		w.request("watch")
	}
}

func (w *Watcher) newestModTime() (time.Time, bool) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Error("reading watched directory", zap.String("dir", w.dir), zap.Error(err))
		return time.Time{}, false
	}

	var newest time.Time
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mt := info.ModTime(); mt.After(newest) {
			newest = mt
		}
	}

	return newest, true
}
