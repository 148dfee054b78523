// Package retention bounds how many committed snapshots the output
// directory keeps.
package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/snapshot"
)

type Engine struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Engine {
	return &Engine{log: log}
}

// Prune keeps the newest keep snapshots whose filename starts with
// prefix and deletes the rest. The latest pointer is excluded by name,
// and the snapshot it targets is never deleted even when keep would
// otherwise claim it. The first failed deletion aborts the pass;
// earlier deletions stay deleted. It reports how many files it
// removed.
func (e *Engine) Prune(dir, prefix string, keep int) (int, error) {
	latestName := snapshot.LatestName(prefix)

	// the target of the pointer is protected unconditionally
	var protected string
	if target, ok, err := snapshot.FindLatest(dir, prefix); err != nil {
		return 0, err
	} else if ok {
		protected = filepath.Base(target)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}

	var names []string
	for _, ent := range entries {
		name := ent.Name()
		if !strings.HasPrefix(name, prefix) || name == latestName {
			continue
		}
		names = append(names, name)
	}

	sortNewestFirst(names, prefix)

	if len(names) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, name := range names[keep:] {
		if name == protected {
			e.log.Warn("refusing to prune target of latest pointer", zap.String("file", name))
			continue
		}
		full := filepath.Join(dir, name)
		if err := os.Remove(full); err != nil {
			return deleted, fmt.Errorf("removing file %s: %w", full, err)
		}
		deleted++
		e.log.Info("pruned", zap.String("file", full))
	}

	return deleted, nil
}

// sortNewestFirst orders snapshot filenames by the unix timestamp
// embedded after the prefix, newest first. Plain string order would
// rank an unpadded "_9" above "_100", so the timestamp is compared
// numerically; names without one sort after all timestamped names.
func sortNewestFirst(names []string, prefix string) {
	sort.Slice(names, func(i, j int) bool {
		ti, oki := stampOf(names[i], prefix)
		tj, okj := stampOf(names[j], prefix)
		switch {
		case oki && okj:
			if ti != tj {
				return ti > tj
			}
			return names[i] > names[j]
		case oki:
			return true
		case okj:
			return false
		default:
			return names[i] > names[j]
		}
	})
}

// stampOf extracts the decimal timestamp following "{prefix}_".
func stampOf(name, prefix string) (int64, bool) {
	rest := strings.TrimPrefix(name, prefix)
	rest = strings.TrimPrefix(rest, "_")

	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	ts, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}
