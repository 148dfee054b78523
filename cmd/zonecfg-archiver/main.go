package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raoulx24/zonecfg-archiver/internal/config"
	"github.com/raoulx24/zonecfg-archiver/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "zonecfg-archiver",
	Short: "Archives zone configurations with dedup and bounded retention",
	Long: `zonecfg-archiver captures the configuration of every zone on the host
into a compressed tar archive, commits it only when the content
changed since the last snapshot, and keeps a bounded history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setup loads the config file and builds the run-scoped logger.
func setup(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "zonecfg-archiver:", err)
		os.Exit(1)
	}
}
