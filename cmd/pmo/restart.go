package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmo-project/pmo/internal/stopper"
	"github.com/spf13/cobra"
)

// RestartFlags decouples cobra from the restart handler for testing.
type RestartFlags struct {
	Refs    []string
	Timeout time.Duration
}

func createRestartCommand(factory func() *command) *cobra.Command {
	flags := &RestartFlags{}
	cmd := &cobra.Command{
		Use:   "restart <all|name|id> [...]",
		Short: "Stop then start one or more services, incrementing their restart count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags.Refs = args
			return factory().Restart(flags)
		},
	}
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "grace period before SIGKILL (default: the descriptor's pmo.stop_timeout, or 10s)")
	return cmd
}

// Restart resolves flags.Refs against every declared service (unlike stop,
// "all" here means every declared service, matching start/restart's
// broader interpretation in original_source/pmo/cli.py).
func (c *command) Restart(flags *RestartFlags) error {
	specs, store, err := c.load()
	if err != nil {
		return err
	}

	timeout := flags.Timeout
	if timeout <= 0 {
		timeout = c.settings().StopTimeout
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	targets, resolveErrs := resolveMany(flags.Refs, specs)
	ctrl := stopper.New(store)

	succeeded := 0
	var errs []error
	errs = append(errs, resolveErrs...)

	for _, spec := range targets {
		if err := ctrl.Restart(ctx, spec, timeout); err != nil {
			errs = append(errs, err)
			c.log.Error(err.Error())
			continue
		}
		succeeded++
		fmt.Printf("restarted %s\n", spec.Name)
	}

	return combineResults(succeeded, errs)
}
