package runner

import (
	"os"
	"syscall"
	"time"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/pmoerr"
	"github.com/pmo-project/pmo/internal/state"
)

// Runner spawns services and records their state. It holds no per-process
// state of its own: every invocation is stateless, reading and writing
// only through the Store. There is no persistent supervising daemon.
type Runner struct {
	Store *state.Store
}

// New builds a Runner bound to store.
func New(store *state.Store) *Runner {
	return &Runner{Store: store}
}

// Start spawns spec as a detached process-group leader with stdout/stderr
// appended to its log files, and records pid/time state. If isRestart is
// true the restarts counter is incremented after a successful spawn.
//
// Returns *pmoerr.AlreadyRunning (not an error condition for callers that
// treat it as informational) if the service is already alive.
func (r *Runner) Start(spec config.ServiceSpec, isRestart bool) error {
	if pid, alive, err := r.isAlive(spec.Name); err != nil {
		return &pmoerr.IOError{Op: "check running state", Reason: err}
	} else if alive {
		return &pmoerr.AlreadyRunning{Name: spec.Name, PID: pid}
	}

	if err := r.Store.EnsureLayout(); err != nil {
		return &pmoerr.IOError{Op: "ensure state layout", Reason: err}
	}

	outLog, errLog, err := r.Store.OpenLogsForAppend(spec.Name)
	if err != nil {
		return &pmoerr.IOError{Op: "open log files", Reason: err}
	}
	defer outLog.Close()
	defer errLog.Close()

	banner := []byte("--- Starting service " + spec.Name + " at " + time.Now().Format(time.RFC3339) + " ---\n")
	_, _ = outLog.Write(banner)

	cmd := buildShellCommand(spec.Cmd)
	if spec.Cwd != "" {
		cmd.Dir = spec.Cwd
	}
	cmd.Env = config.EffectiveEnv(spec)
	cmd.Stdout = outLog
	cmd.Stderr = errLog
	null, nerr := os.OpenFile(os.DevNull, os.O_RDONLY, 0)
	if nerr == nil {
		cmd.Stdin = null
		defer null.Close()
	}
	configureSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return &pmoerr.SpawnFailed{Name: spec.Name, Reason: err}
	}

	// Read before Release, which resets cmd.Process.Pid to -1.
	pid := cmd.Process.Pid

	// Released immediately: pmo does not wait on the child, consistent
	// with the one-shot CLI model (no monitor goroutine, unlike
	// provisr's Process.Wait).
	_ = cmd.Process.Release()

	if err := r.Store.WriteStartTime(spec.Name, time.Now()); err != nil {
		return &pmoerr.IOError{Op: "write time file", Reason: err}
	}
	if isRestart {
		if _, err := r.Store.IncrementRestarts(spec.Name); err != nil {
			return &pmoerr.IOError{Op: "write restarts file", Reason: err}
		}
	}
	if err := r.Store.WritePID(spec.Name, pid); err != nil {
		return &pmoerr.IOError{Op: "write pid file", Reason: err}
	}
	return nil
}

// isAlive is a minimal, local-to-the-runner liveness check used only for
// the already-running precondition; the full running/stopped/stale
// classification with staleness detection lives in internal/probe.
func (r *Runner) isAlive(name string) (pid int, alive bool, err error) {
	pid, ok, err := r.Store.ReadPID(name)
	if err != nil || !ok {
		return 0, false, err
	}
	if err := syscall.Kill(pid, 0); err != nil {
		return pid, false, nil
	}
	return pid, true, nil
}
