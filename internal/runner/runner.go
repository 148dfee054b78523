// Package runner executes the backup pipeline: advisory lock, archive
// build, dedup commit, retention prune, strictly in that order.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/config"
	"github.com/raoulx24/zonecfg-archiver/internal/fs"
	"github.com/raoulx24/zonecfg-archiver/internal/mailbox"
	"github.com/raoulx24/zonecfg-archiver/internal/metrics"
	"github.com/raoulx24/zonecfg-archiver/internal/retention"
	"github.com/raoulx24/zonecfg-archiver/internal/snapshot"
	"github.com/raoulx24/zonecfg-archiver/internal/zones"
)

// Job asks the runner loop for one backup run.
type Job struct {
	Trigger string // "schedule", "watch", "startup"
	Time    time.Time
}

type Runner struct {
	cfg *config.Config
	log *zap.Logger
	sys zones.System
	ret *retention.Engine
	met *metrics.Registry // nil outside daemon mode
}

func New(cfg *config.Config, log *zap.Logger, sys zones.System, met *metrics.Registry) *Runner {
	return &Runner{
		cfg: cfg,
		log: log,
		sys: sys,
		ret: retention.New(log),
		met: met,
	}
}

// Run executes one full pipeline pass. Exactly one run may work
// against an output directory at a time; a held lock fails the run
// immediately with fs.ErrLockHeld.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	res, err := r.locked(ctx)
	if err != nil {
		r.met.ObserveRun(metrics.OutcomeFailed, time.Since(start))
		return err
	}

	outcome := metrics.OutcomeCommitted
	if res.Status == snapshot.StatusSkipped {
		outcome = metrics.OutcomeSkipped
	}
	r.met.ObserveRun(outcome, time.Since(start))
	return nil
}

func (r *Runner) locked(ctx context.Context) (snapshot.Result, error) {
	lock, err := fs.AcquireLock(r.lockPath())
	if err != nil {
		return snapshot.Result{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.log.Error("releasing run lock", zap.Error(err))
		}
	}()

	return r.pipeline(ctx)
}

func (r *Runner) pipeline(ctx context.Context) (snapshot.Result, error) {
	out := r.cfg.Output

	staged, err := snapshot.Build(ctx, r.log, r.sys, out.Dir, out.Level())
	if err != nil {
		return snapshot.Result{}, err
	}

	res, err := snapshot.Commit(ctx, r.log, staged, out.Dir, out.Prefix)
	if err != nil {
		return res, err
	}

	// retention runs even after a skipped commit; the directory may
	// hold leftovers from runs with a larger numberOfBackups
	deleted, err := r.ret.Prune(out.Dir, out.Prefix, out.Keep())
	r.met.AddPruned(deleted)
	if err != nil {
		return res, fmt.Errorf("pruning old snapshots: %w", err)
	}

	return res, nil
}

// PruneOnly runs just the retention pass under the advisory lock.
func (r *Runner) PruneOnly() error {
	lock, err := fs.AcquireLock(r.lockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.log.Error("releasing run lock", zap.Error(err))
		}
	}()

	out := r.cfg.Output
	deleted, err := r.ret.Prune(out.Dir, out.Prefix, out.Keep())
	r.met.AddPruned(deleted)
	if err != nil {
		return fmt.Errorf("pruning old snapshots: %w", err)
	}
	return nil
}

// Loop consumes run requests until ctx ends. Failures are logged, not
// fatal: the daemon outlives a broken run and tries again on the next
// trigger.
func (r *Runner) Loop(ctx context.Context, mb *mailbox.Mailbox[Job]) {
	for {
		job, ok := mb.Take(ctx)
		if !ok {
			return
		}

		r.log.Info("starting backup run", zap.String("trigger", job.Trigger))
		if err := r.Run(ctx); err != nil {
			r.log.Error("backup run failed", zap.String("trigger", job.Trigger), zap.Error(err))
		}
	}
}

func (r *Runner) lockPath() string {
	return filepath.Join(r.cfg.Output.Dir, "."+r.cfg.Output.Prefix+".lock")
}
