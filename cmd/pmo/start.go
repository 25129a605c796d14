package main

import (
	"fmt"

	"github.com/pmo-project/pmo/internal/pmoerr"
	"github.com/pmo-project/pmo/internal/runner"
	"github.com/spf13/cobra"
)

// StartFlags decouples cobra from the start handler for testing, matching
// provisr's StartFlags/flags-struct split.
type StartFlags struct {
	Refs []string
}

func createStartCommand(factory func() *command) *cobra.Command {
	flags := &StartFlags{}
	cmd := &cobra.Command{
		Use:   "start <all|name|id> [...]",
		Short: "Start one or more declared services",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags.Refs = args
			return factory().Start(flags)
		},
	}
	return cmd
}

// Start resolves flags.Refs and launches every matching service that is
// not already running.
func (c *command) Start(flags *StartFlags) error {
	specs, store, err := c.load()
	if err != nil {
		return err
	}

	targets, resolveErrs := resolveMany(flags.Refs, specs)
	r := runner.New(store)

	succeeded := 0
	var errs []error
	errs = append(errs, resolveErrs...)

	for _, spec := range targets {
		err := r.Start(spec, false)
		switch e := err.(type) {
		case nil:
			succeeded++
			fmt.Printf("started %s\n", spec.Name)
		case *pmoerr.AlreadyRunning:
			succeeded++
			fmt.Printf("%s already running (pid %d)\n", e.Name, e.PID)
		default:
			errs = append(errs, err)
			c.log.Error(err.Error())
		}
	}

	return combineResults(succeeded, errs)
}
