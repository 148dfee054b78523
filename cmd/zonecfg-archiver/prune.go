package main

import (
	"github.com/spf13/cobra"

	"github.com/raoulx24/zonecfg-archiver/internal/runner"
	"github.com/raoulx24/zonecfg-archiver/internal/zones"
)

var pruneCmd = &cobra.Command{
	Use:   "prune CONFIG",
	Short: "Apply the retention policy without taking a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(args[0])
		if err != nil {
			return err
		}
		defer log.Sync()

		r := runner.New(cfg, log, zones.NewCommandSystem(cfg.Zones), nil)
		return r.PruneOnly()
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
