package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// buildRoot assembles the root cobra command and every subcommand: one
// create*Command factory per subcommand, a flags struct per command
// decoupled from cobra, all wired through the shared command facade
// rather than a daemon API client (pmo has no daemon to talk to).
func buildRoot(log *slog.Logger) *cobra.Command {
	var descPath string

	root := &cobra.Command{
		Use:   "pmo",
		Short: "A lightweight process supervisor for local development services",
	}
	root.PersistentFlags().StringVarP(&descPath, "file", "f", "pmo.yml", "path to the service descriptor")

	cmdFactory := func() *command { return newCommand(log, descPath) }

	root.AddCommand(
		createStartCommand(cmdFactory),
		createStopCommand(cmdFactory),
		createRestartCommand(cmdFactory),
		createLogCommand(cmdFactory),
		createFlushCommand(cmdFactory),
		createLsCommand(cmdFactory),
		createDryRunCommand(cmdFactory),
	)
	return root
}
