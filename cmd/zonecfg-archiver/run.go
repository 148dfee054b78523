package main

import (
	"github.com/spf13/cobra"

	"github.com/raoulx24/zonecfg-archiver/internal/runner"
	"github.com/raoulx24/zonecfg-archiver/internal/zones"
)

var runCmd = &cobra.Command{
	Use:   "run CONFIG",
	Short: "Take one snapshot, commit it if changed, prune, exit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(args[0])
		if err != nil {
			return err
		}
		defer log.Sync()

		r := runner.New(cfg, log, zones.NewCommandSystem(cfg.Zones), nil)
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
