// Package stopper implements the Stop Controller: the two-phase graceful
// stop (SIGTERM, wait, SIGKILL) applied to a service's whole process tree,
// plus the restart operation built on top of it and the Process Runner.
package stopper

import (
	"context"
	"syscall"
	"time"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/pmoerr"
	"github.com/pmo-project/pmo/internal/probe"
	"github.com/pmo-project/pmo/internal/runner"
	"github.com/pmo-project/pmo/internal/state"
)

// DefaultTimeout is the grace period between SIGTERM and SIGKILL.
const DefaultTimeout = 10 * time.Second

const (
	pollInterval       = 100 * time.Millisecond
	killMopUpWindow    = 2 * time.Second
)

// Controller implements stop/restart against a Store.
type Controller struct {
	Store  *state.Store
	Runner *runner.Runner
}

// New builds a Controller bound to store, with its own Runner for restart.
func New(store *state.Store) *Controller {
	return &Controller{Store: store, Runner: runner.New(store)}
}

// Stop signals the service's whole process group with SIGTERM, waits up to
// timeout for it to exit, and escalates to SIGKILL plus a per-straggler
// mop-up if it doesn't. ctx cancellation aborts the polling wait early and
// returns a partial-completion error; processes already signaled continue
// shutting down regardless.
func (c *Controller) Stop(ctx context.Context, name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pid, ok, err := c.Store.ReadPID(name)
	if err != nil {
		if corrupt, isCorrupt := err.(*pmoerr.StateCorruption); isCorrupt {
			return c.cleanupStale(name, corrupt)
		}
		return &pmoerr.IOError{Op: "read pid file", Reason: err}
	}
	if !ok {
		return &pmoerr.NotRunning{Name: name}
	}

	if !alive(pid) {
		return c.cleanupStale(name, nil)
	}

	if startedAt, hasTime, terr := c.Store.ReadStartTime(name); terr == nil && hasTime && probe.IsRecycled(pid, startedAt) {
		return c.cleanupStale(name, &pmoerr.StateCorruption{Name: name, Reason: "recorded pid was reused by an unrelated process"})
	}

	descendants, _ := probe.DescendantPIDs(pid)

	_ = signalGroup(pid, syscall.SIGTERM)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !treeAlive(pid, descendants) {
			return c.finishStop(name)
		}
		select {
		case <-ctx.Done():
			return &pmoerr.IOError{Op: "stop " + name, Reason: ctx.Err()}
		case <-time.After(pollInterval):
		}
	}

	// Escalate: killpg then individually mop up any stragglers that left
	// the group.
	_ = signalGroup(pid, syscall.SIGKILL)
	for _, d := range descendants {
		if alive(d) {
			_ = signalOne(d, syscall.SIGKILL)
		}
	}

	mopDeadline := time.Now().Add(killMopUpWindow)
	for time.Now().Before(mopDeadline) {
		if !treeAlive(pid, descendants) {
			break
		}
		time.Sleep(pollInterval)
	}

	var warn error
	if treeAlive(pid, descendants) {
		warn = &pmoerr.UnkillableDescendant{Name: name, PID: pid}
	} else {
		warn = &pmoerr.StopTimeout{Name: name, Timeout: timeout.String()}
	}
	if err := c.finishStop(name); err != nil {
		return err
	}
	return warn
}

func treeAlive(leader int, descendants []int) bool {
	if alive(leader) {
		return true
	}
	for _, d := range descendants {
		if alive(d) {
			return true
		}
	}
	return false
}

// finishStop removes the time file first, then the pid file, so a reader
// never observes a pid file without a matching time file.
func (c *Controller) finishStop(name string) error {
	if err := c.Store.RemoveStartTime(name); err != nil {
		return &pmoerr.IOError{Op: "remove time file", Reason: err}
	}
	if err := c.Store.RemovePID(name); err != nil {
		return &pmoerr.IOError{Op: "remove pid file", Reason: err}
	}
	return nil
}

// cleanupStale auto-repairs a pid file pointing at a dead or recycled
// process. corruption, if non-nil, is returned instead of NotRunning to
// distinguish "someone else's pid got recorded here" from the ordinary
// "the service simply isn't running anymore".
func (c *Controller) cleanupStale(name string, corruption error) error {
	if err := c.finishStop(name); err != nil {
		return err
	}
	if corruption != nil {
		return corruption
	}
	return &pmoerr.NotRunning{Name: name}
}

// Restart stops then starts spec, incrementing the restarts counter only
// after both phases succeed, atomic from the caller's point of view. Stop
// outcomes that aren't fatal to starting again (the service was already
// down, or came down only after SIGKILL, or its pid file needed repair)
// don't block the start half.
func (c *Controller) Restart(ctx context.Context, spec config.ServiceSpec, timeout time.Duration) error {
	if err := c.Stop(ctx, spec.Name, timeout); err != nil && !isNonFatalStop(err) {
		return err
	}
	return c.Runner.Start(spec, true)
}

func isNonFatalStop(err error) bool {
	switch err.(type) {
	case *pmoerr.NotRunning, *pmoerr.UnkillableDescendant, *pmoerr.StopTimeout, *pmoerr.StateCorruption:
		return true
	default:
		return false
	}
}
