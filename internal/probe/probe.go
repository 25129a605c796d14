// Package probe implements the Status Probe: given recorded state, it
// decides whether a service is running, stopped, or stale, and reports
// uptime, restart count, CPU/RSS across the process tree, and optional GPU
// attribution. It never mutates recorded state itself; stale-pidfile
// repair happens on the next state-mutating command.
package probe

import (
	"syscall"
	"time"

	"github.com/pmo-project/pmo/internal/state"
)

// State is one of the three service classifications.
type State string

const (
	Running State = "running"
	Stopped State = "stopped"
	Stale   State = "stale"
)

// Row is the reported status for one service.
type Row struct {
	Name         string
	State        State
	PID          int
	Uptime       time.Duration
	RestartCount int
	CPUPercent   float64
	RSSBytes     uint64
	GPUMemBytes  uint64
	GPUIDs       []int
	User         string
}

// Prober reads Store state and cross-checks it against the OS.
type Prober struct {
	Store *state.Store
}

// New builds a Prober bound to store.
func New(store *state.Store) *Prober {
	return &Prober{Store: store}
}

// Status classifies and reports on a single service by name. When the
// recorded pid is stale (dead or recycled), the pid/time files are left
// untouched here — auto-repair happens on the next state-mutating command —
// but the row still reports State=Stale.
func (p *Prober) Status(name string) (Row, error) {
	row := Row{Name: name, State: Stopped}

	pid, ok, err := p.Store.ReadPID(name)
	if err != nil {
		return row, err
	}
	if !ok {
		return row, nil
	}

	restarts, err := p.Store.ReadRestarts(name)
	if err != nil {
		return row, err
	}
	row.RestartCount = restarts

	startedAt, hasTime, err := p.Store.ReadStartTime(name)
	if err != nil {
		return row, err
	}

	if !isAlive(pid) {
		row.State = Stale
		row.PID = pid
		return row, nil
	}

	if hasTime && IsRecycled(pid, startedAt) {
		row.State = Stale
		row.PID = pid
		return row, nil
	}

	row.State = Running
	row.PID = pid
	if hasTime {
		row.Uptime = time.Since(startedAt)
	}

	if stats, serr := treeStats(pid); serr == nil {
		row.CPUPercent = stats.cpuPercent
		row.RSSBytes = stats.rssBytes
	}
	row.User = leaderUser(pid)

	if mem, ids, gerr := gpuAttribution(pid); gerr == nil {
		row.GPUMemBytes = mem
		row.GPUIDs = ids
	}

	return row, nil
}

// isAlive reports whether pid names a live process, treating EPERM
// (owned by another user, exists but unsignalable) as alive, matching
// provisr's detector.pidAlive.
func isAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	if err == nil || err == syscall.EPERM {
		return true
	}
	return false
}

// IsRecycled compares the OS-reported process start time against the
// recorded generation's start time; a gap beyond this tolerance means the
// PID has been reused by an unrelated process since pmo last saw it.
const recycleTolerance = 3 * time.Second

func IsRecycled(pid int, recordedStart time.Time) bool {
	actual := processStartUnix(pid)
	if actual == 0 {
		return false // unavailable: do not flag solely for missing data
	}
	delta := recordedStart.Sub(time.Unix(actual, 0))
	if delta < 0 {
		delta = -delta
	}
	return delta > recycleTolerance
}
