package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/fs"
)

// Status reports what Commit did with a staged snapshot.
type Status int

const (
	// StatusCommitted means the staged snapshot became the new latest.
	StatusCommitted Status = iota
	// StatusSkipped means the content matched the previous snapshot
	// and nothing in the output directory was touched.
	StatusSkipped
)

// Result describes the outcome of a commit.
type Result struct {
	Status Status
	Path   string // committed snapshot path, empty when skipped
}

// overridable in tests
var timeNow = time.Now

// Commit decides whether the staged snapshot differs from the current
// latest one and, only then, makes it permanent.
//
// With a prior snapshot present, both files are fingerprinted; equal
// content discards the staged file and reports StatusSkipped without
// touching the latest pointer or the retained set. Otherwise the
// staged file is renamed to {prefix}_{unixSeconds}.zones.tar.zst and
// the latest pointer is re-linked to it.
//
// A rename failure or a destination name collision leaves the staged
// file in place for inspection.
// Every other failure path discards it. A symlink failure after the
// rename leaves a valid committed snapshot behind a stale or missing
// pointer, which the next run repairs.
func Commit(ctx context.Context, log *zap.Logger, staged *Staged, dir, prefix string) (Result, error) {
	prior, ok, err := FindLatest(dir, prefix)
	if err != nil {
		derr := staged.Discard()
		if derr != nil {
			log.Error("staging cleanup failed", zap.Error(derr))
		}
		return Result{}, err
	}

	if ok {
		priorSum, err := fingerprintFile(prior)
		if err != nil {
			_ = staged.Discard()
			return Result{}, fmt.Errorf("fingerprinting previous snapshot %s: %w", prior, err)
		}
		stagedSum, err := fingerprintFile(staged.Path)
		if err != nil {
			_ = staged.Discard()
			return Result{}, fmt.Errorf("fingerprinting staged snapshot %s: %w", staged.Path, err)
		}

		if priorSum == stagedSum {
			log.Info("no changes in zone configs detected, skipping write")
			if err := staged.Discard(); err != nil {
				return Result{}, err
			}
			return Result{Status: StatusSkipped}, nil
		}
	}

	dest := filepath.Join(dir, CommittedName(prefix, timeNow().Unix()))
	// Names carry second resolution, so two differing commits inside
	// the same second would collide. Refuse rather than rewrite an
	// already committed snapshot.
	if _, err := os.Lstat(dest); err == nil {
		return Result{}, fmt.Errorf("snapshot %s already exists, refusing to overwrite", dest)
	} else if !os.IsNotExist(err) {
		return Result{}, fmt.Errorf("checking destination %s: %w", dest, err)
	}
	if err := fs.Rename(ctx, staged.Path, dest); err != nil {
		// staged file intentionally kept on disk
		return Result{}, fmt.Errorf("committing snapshot to %s: %w", dest, err)
	}
	staged.markCommitted()
	log.Info("zone backup file written", zap.String("path", dest))

	latest := filepath.Join(dir, LatestName(prefix))
	// absence of the old pointer is not an error
	_ = os.Remove(latest)
	if err := os.Symlink(dest, latest); err != nil {
		return Result{}, fmt.Errorf("symlink %s -> %s: %w", dest, latest, err)
	}
	log.Info("latest pointer updated", zap.String("pointer", latest), zap.String("target", dest))

	return Result{Status: StatusCommitted, Path: dest}, nil
}
