package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/mailbox"
	"github.com/raoulx24/zonecfg-archiver/internal/metrics"
	"github.com/raoulx24/zonecfg-archiver/internal/runner"
	"github.com/raoulx24/zonecfg-archiver/internal/watcher"
	"github.com/raoulx24/zonecfg-archiver/internal/zones"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon CONFIG",
	Short: "Keep running; snapshot on a schedule and on zone config changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(args[0])
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Daemon.Schedule == "" && !cfg.Daemon.Watch.Enabled {
		return fmt.Errorf("daemon mode needs daemon.schedule or daemon.watch.enabled")
	}

	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)
	met := metrics.NewRegistry()
	mb := mailbox.New[runner.Job]()
	r := runner.New(cfg, log, zones.NewCommandSystem(cfg.Zones), met)

	if cfg.Daemon.Schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Daemon.Schedule, func() {
			mb.Put(runner.Job{Trigger: "schedule", Time: time.Now()})
		}); err != nil {
			return fmt.Errorf("parsing daemon.schedule: %w", err)
		}
		c.Start()
		defer c.Stop()
		log.Info("schedule armed", zap.String("cron", cfg.Daemon.Schedule))
	}

	if cfg.Daemon.Watch.Enabled {
		w := watcher.New(cfg.Daemon.Watch, log, mb)
		soleTrigger := cfg.Daemon.Schedule == ""
		go func() {
			if err := w.Start(ctx); err != nil {
				log.Error("watcher failed", zap.Error(err))
				if soleTrigger {
					// without the watcher nothing would ever trigger
					// a run again, so take the daemon down with it
					cancel(fmt.Errorf("watcher failed: %w", err))
				}
			}
		}()
		log.Info("watching zone configuration", zap.String("dir", cfg.Daemon.Watch.Dir))
	}

	if addr := cfg.Daemon.MetricsListen; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(met.Registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("metrics listening", zap.String("addr", addr))
	}

	// one immediate run so a freshly started daemon is current
	mb.Put(runner.Job{Trigger: "startup", Time: time.Now()})

	r.Loop(ctx, mb)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	log.Info("shutdown complete")
	return nil
}
