package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmo-project/pmo/internal/probe"
	"github.com/spf13/cobra"
)

// LsFlags decouples cobra from the ls handler for testing.
type LsFlags struct{}

func createLsCommand(factory func() *command) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"ps"},
		Short:   "List every declared service and its live status",
		Args:    cobra.NoArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			return factory().Ls(&LsFlags{})
		},
	}
	return cmd
}

// Ls reports every declared service, numbering rows by descriptor
// declaration order, matching the PM2-style column set the original
// scaffolded in original_source/pmo/logs.py:print_service_table.
func (c *command) Ls(_ *LsFlags) error {
	specs, store, err := c.load()
	if err != nil {
		return err
	}
	prober := c.prober(store)

	header := fmt.Sprintf("%-4s %-16s %-8s %-10s %-9s %-7s %-8s %-10s %-6s %-10s %-8s",
		"id", "name", "pid", "uptime", "status", "cpu", "mem", "gpu mem", "gpu", "user", "restarts")
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	for i, spec := range specs {
		row, err := prober.Status(spec.Name)
		if err != nil {
			c.log.Error(err.Error())
			continue
		}
		printRow(i+1, spec.Name, row)
	}
	return nil
}

func printRow(id int, name string, row probe.Row) {
	statusText := string(row.State)
	statusColored := statusText
	switch row.State {
	case probe.Running:
		statusColored = color.New(color.FgGreen).Sprint(statusText)
	case probe.Stale:
		statusColored = color.New(color.FgYellow).Sprint(statusText)
	default:
		statusColored = color.New(color.FgRed).Sprint(statusText)
	}

	pidStr := "-"
	if row.PID > 0 {
		pidStr = fmt.Sprintf("%d", row.PID)
	}
	uptimeStr := "-"
	cpuStr := "-"
	memStr := "-"
	gpuMemStr := "-"
	gpuIDStr := "-"
	userStr := "-"
	if row.State == probe.Running {
		uptimeStr = probe.FormatUptime(row.Uptime)
		cpuStr = fmt.Sprintf("%.1f%%", row.CPUPercent)
		memStr = probe.FormatBytes(row.RSSBytes)
		if row.GPUMemBytes > 0 {
			gpuMemStr = probe.FormatBytes(row.GPUMemBytes)
		}
		if len(row.GPUIDs) > 0 {
			gpuIDStr = fmt.Sprintf("%v", row.GPUIDs)
		}
		if row.User != "" {
			userStr = row.User
		}
	}

	fmt.Printf("%-4d %-16s %-8s %-10s %-9s %-7s %-8s %-10s %-6s %-10s %-8d\n",
		id, name, pidStr, uptimeStr, statusColored, cpuStr, memStr, gpuMemStr, gpuIDStr, userStr, row.RestartCount)
}
