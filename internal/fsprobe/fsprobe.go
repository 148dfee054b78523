// Package fsprobe decides whether fsnotify can be trusted for the zone
// configuration directory. Zone config trees sometimes live on NFS or
// other filesystems that accept a watch but never deliver events, so
// instead of inspecting mount types the probe exercises the real thing:
// create a hidden file, rename it, and see whether the event arrives.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Result reports whether fsnotify is usable and why not.
type Result struct {
	FsnotifySupported bool   // true if events are delivered
	Reason            string // explanation when unsupported
}

// Probe runs a create+rename round trip in dir and reports whether
// fsnotify observed it. A failed probe means the watcher should fall
// back to mtime polling.
func Probe(dir string) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	// Dotfiles so the change detector ignores them, same as any other
	// scratch file in the watched tree.
	tmp := filepath.Join(dir, ".zonecfg-probe-tmp")
	final := filepath.Join(dir, ".zonecfg-probe")

	if f, err := os.Create(tmp); err == nil {
		f.Close()
	} else {
		return Result{false, fmt.Sprintf("cannot create test file: %v", err)}
	}

	// The rename mirrors how zonecfg itself rewrites zone XML files,
	// which is exactly the event the watcher has to catch.
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return Result{false, fmt.Sprintf("rename failed: %v", err)}
	}
	defer os.Remove(final)

	timeout := time.After(200 * time.Millisecond)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{true, ""}
			}
		case <-timeout:
			return Result{false, "no events received (rename not reported)"}
		}
	}
}
