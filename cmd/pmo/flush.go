package main

import (
	"fmt"

	"github.com/pmo-project/pmo/internal/tail"
	"github.com/spf13/cobra"
)

// FlushFlags decouples cobra from the flush handler for testing.
type FlushFlags struct {
	Refs []string
}

func createFlushCommand(factory func() *command) *cobra.Command {
	flags := &FlushFlags{}
	cmd := &cobra.Command{
		Use:   "flush <all|name|id> [...]",
		Short: "Truncate logs for running services, delete logs for stopped ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags.Refs = args
			return factory().Flush(flags)
		},
	}
	return cmd
}

// Flush resolves flags.Refs against every declared service and flushes
// each one's log pair.
func (c *command) Flush(flags *FlushFlags) error {
	specs, store, err := c.load()
	if err != nil {
		return err
	}

	targets, resolveErrs := resolveMany(flags.Refs, specs)
	prober := c.prober(store)

	succeeded := 0
	var errs []error
	errs = append(errs, resolveErrs...)

	for _, spec := range targets {
		if err := tail.Flush(store, prober, spec.Name); err != nil {
			errs = append(errs, err)
			c.log.Error(err.Error())
			continue
		}
		succeeded++
		fmt.Printf("flushed logs for %s\n", spec.Name)
	}

	return combineResults(succeeded, errs)
}
