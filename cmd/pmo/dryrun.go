package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DryRunFlags decouples cobra from the dry-run handler for testing.
type DryRunFlags struct {
	Refs []string
}

func createDryRunCommand(factory func() *command) *cobra.Command {
	flags := &DryRunFlags{}
	cmd := &cobra.Command{
		Use:   "dry-run <all|name|id> [...]",
		Short: "Print resolved service specs without spawning anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags.Refs = args
			return factory().DryRun(flags)
		},
	}
	return cmd
}

// DryRun prints the fully resolved cmd/cwd/env for each matching service
// without spawning anything or writing pid/time/restarts files; loading
// the descriptor still creates the .pmo state directories if absent.
func (c *command) DryRun(flags *DryRunFlags) error {
	specs, _, err := c.load()
	if err != nil {
		return err
	}

	targets, resolveErrs := resolveMany(flags.Refs, specs)
	succeeded := 0
	var errs []error
	errs = append(errs, resolveErrs...)

	for _, spec := range targets {
		succeeded++
		fmt.Printf("service: %s\n", spec.Name)
		fmt.Printf("  cmd: %s\n", spec.Cmd)
		cwd := spec.Cwd
		if cwd == "" {
			cwd = "(inherited)"
		}
		fmt.Printf("  cwd: %s\n", cwd)
		fmt.Println("  env:")
		for k, v := range spec.Env {
			fmt.Printf("    %s=%s\n", k, v)
		}
	}
	return combineResults(succeeded, errs)
}
