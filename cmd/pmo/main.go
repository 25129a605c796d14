// Command pmo is a short-lived CLI that starts, stops, restarts, lists,
// and tails logs for services declared in a pmo.yml descriptor. It holds
// no long-lived state of its own; every invocation resolves the
// descriptor, does one thing, and exits.
package main

import (
	"log/slog"
	"os"

	"github.com/pmo-project/pmo/internal/logger"
)

func main() {
	log := logger.New(os.Stderr, slog.LevelInfo)
	root := buildRoot(log)

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
