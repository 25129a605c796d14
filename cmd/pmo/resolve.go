package main

import (
	"strconv"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/pmoerr"
	"github.com/pmo-project/pmo/internal/probe"
	"github.com/pmo-project/pmo/internal/state"
)

// resolveOne resolves a single CLI argument to a declared service: a
// numeric string is a 1-based positional index into the descriptor's
// declaration order, anything else is matched by name. Grounded verbatim
// in behavior on original_source/pmo/cli.py:resolve_service_id.
func resolveOne(ref string, specs []config.ServiceSpec) (config.ServiceSpec, error) {
	if idx, err := strconv.Atoi(ref); err == nil {
		if idx >= 1 && idx <= len(specs) {
			return specs[idx-1], nil
		}
		return config.ServiceSpec{}, &pmoerr.UnknownService{Ref: ref}
	}
	for _, s := range specs {
		if s.Name == ref {
			return s, nil
		}
	}
	return config.ServiceSpec{}, &pmoerr.UnknownService{Ref: ref}
}

// resolveMany expands "all" to every declared service and otherwise
// resolves each ref independently, collecting per-ref errors rather than
// aborting on the first bad one: an unknown ref is surfaced for that
// argument while the rest continue. Grounded on
// original_source/pmo/cli.py:resolve_multiple_services.
func resolveMany(refs []string, specs []config.ServiceSpec) ([]config.ServiceSpec, []error) {
	if len(refs) == 1 && refs[0] == "all" {
		out := make([]config.ServiceSpec, len(specs))
		copy(out, specs)
		return out, nil
	}
	var resolved []config.ServiceSpec
	var errs []error
	for _, ref := range refs {
		sp, err := resolveOne(ref, specs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved = append(resolved, sp)
	}
	return resolved, errs
}

// resolveRunning expands "all" to every currently-running declared
// service, matching handle_stop's narrower interpretation of "all" (only
// running services, not every declared one).
func resolveRunning(refs []string, specs []config.ServiceSpec, store *state.Store) ([]config.ServiceSpec, []error) {
	if len(refs) == 1 && refs[0] == "all" {
		prober := probe.New(store)
		var running []config.ServiceSpec
		for _, s := range specs {
			row, err := prober.Status(s.Name)
			if err == nil && row.State == probe.Running {
				running = append(running, s)
			}
		}
		return running, nil
	}
	return resolveMany(refs, specs)
}
