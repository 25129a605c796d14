package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmo-project/pmo/internal/pmoerr"
	"github.com/pmo-project/pmo/internal/stopper"
	"github.com/spf13/cobra"
)

// StopFlags decouples cobra from the stop handler for testing.
type StopFlags struct {
	Refs    []string
	Timeout time.Duration
}

func createStopCommand(factory func() *command) *cobra.Command {
	flags := &StopFlags{}
	cmd := &cobra.Command{
		Use:   "stop <all|name|id> [...]",
		Short: "Gracefully stop one or more running services",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags.Refs = args
			return factory().Stop(flags)
		},
	}
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "grace period before SIGKILL (default: the descriptor's pmo.stop_timeout, or 10s)")
	return cmd
}

// Stop resolves flags.Refs ("all" meaning every currently-running service,
// per original_source/pmo/cli.py:handle_stop) and stops each.
func (c *command) Stop(flags *StopFlags) error {
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

	targets, resolveErrs := resolveRunning(flags.Refs, specs, store)
	ctrl := stopper.New(store)

	succeeded := 0
	var errs []error
	errs = append(errs, resolveErrs...)

	for _, spec := range targets {
		err := ctrl.Stop(ctx, spec.Name, timeout)
		switch e := err.(type) {
		case nil:
			succeeded++
			fmt.Printf("stopped %s\n", spec.Name)
		case *pmoerr.NotRunning:
			succeeded++
			fmt.Printf("%s is not running\n", e.Name)
		case *pmoerr.UnkillableDescendant:
			succeeded++
			c.log.Warn(e.Error())
			fmt.Printf("stopped %s (with warnings)\n", spec.Name)
		case *pmoerr.StopTimeout:
			succeeded++
			c.log.Warn(e.Error())
			fmt.Printf("stopped %s (SIGKILL)\n", spec.Name)
		case *pmoerr.StateCorruption:
			succeeded++
			c.log.Warn(e.Error())
			fmt.Printf("cleaned up stale state for %s\n", spec.Name)
		default:
			errs = append(errs, err)
			c.log.Error(err.Error())
		}
	}

	if len(targets) == 0 && len(resolveErrs) == 0 {
		fmt.Fprintln(os.Stdout, "no running services matched")
	}
	return combineResults(succeeded, errs)
}
