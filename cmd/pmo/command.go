package main

import (
	"log/slog"
	"path/filepath"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/probe"
	"github.com/pmo-project/pmo/internal/state"
)

// command is the facade every subcommand handler is built on, decoupled
// from cobra so it is directly testable without constructing a
// cobra.Command, keeping flag structs separate from the underlying
// command logic.
type command struct {
	log      *slog.Logger
	descPath string
}

func newCommand(log *slog.Logger, descPath string) *command {
	return &command{log: log, descPath: descPath}
}

// load resolves the descriptor and opens the matching Store, logging any
// normalization warnings (reserved names, malformed entries) at warn level.
func (c *command) load() ([]config.ServiceSpec, *state.Store, error) {
	abs, err := filepath.Abs(c.descPath)
	if err != nil {
		return nil, nil, err
	}
	specs, warnings, err := config.Load(abs)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		if w.Name != "" {
			c.log.Warn(w.Reason, "service", w.Name)
		} else {
			c.log.Warn(w.Reason)
		}
	}

	store, err := state.Open(filepath.Dir(abs))
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureLayout(); err != nil {
		return nil, nil, err
	}
	return specs, store, nil
}

func (c *command) prober(store *state.Store) *probe.Prober {
	return probe.New(store)
}

// settings reads the descriptor's optional "pmo:" stanza (e.g.
// stop_timeout), falling back to config.DefaultSettings if the stanza or
// the descriptor itself is absent.
func (c *command) settings() config.Settings {
	abs, err := filepath.Abs(c.descPath)
	if err != nil {
		return config.DefaultSettings()
	}
	settings, err := config.LoadSettings(abs)
	if err != nil {
		return config.DefaultSettings()
	}
	return settings
}
