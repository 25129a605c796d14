package probe

import (
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/runner"
	"github.com/pmo-project/pmo/internal/state"
	"github.com/stretchr/testify/require"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func newStore(t *testing.T) *state.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := state.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())
	return s
}

func TestStatusStoppedWhenNoPidFile(t *testing.T) {
	store := newStore(t)
	p := New(store)

	row, err := p.Status("never-started")
	require.NoError(t, err)
	require.Equal(t, Stopped, row.State)
}

func TestStatusRunningAfterStart(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	r := runner.New(store)
	p := New(store)

	spec := config.ServiceSpec{Name: "web", Cmd: "sleep 2"}
	require.NoError(t, r.Start(spec, false))

	row, err := p.Status("web")
	require.NoError(t, err)
	require.Equal(t, Running, row.State)
	require.Greater(t, row.PID, 0)
	require.GreaterOrEqual(t, row.Uptime, time.Duration(0))
	require.Equal(t, 0, row.RestartCount)

	_ = syscall.Kill(-row.PID, syscall.SIGKILL)
}

func TestStatusStaleWhenPidDead(t *testing.T) {
	store := newStore(t)
	p := New(store)

	require.NoError(t, store.WritePID("x", 999999))
	require.NoError(t, store.WriteStartTime("x", time.Now()))

	row, err := p.Status("x")
	require.NoError(t, err)
	require.Equal(t, Stale, row.State)
}

func TestUptimeStrictlyIncreases(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	r := runner.New(store)
	p := New(store)

	spec := config.ServiceSpec{Name: "web", Cmd: "sleep 2"}
	require.NoError(t, r.Start(spec, false))

	first, err := p.Status("web")
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	second, err := p.Status("web")
	require.NoError(t, err)

	require.Greater(t, second.Uptime, first.Uptime)
	_ = syscall.Kill(-first.PID, syscall.SIGKILL)
}

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "512kb", FormatBytes(512*1024))
	require.Equal(t, "5mb", FormatBytes(5*1024*1024))
	require.Equal(t, "2.0gb", FormatBytes(2*1024*1024*1024))
}

func TestFormatUptime(t *testing.T) {
	require.Equal(t, "45s", FormatUptime(45*time.Second))
	require.Equal(t, "3m5s", FormatUptime(3*time.Minute+5*time.Second))
	require.Equal(t, "2h0m", FormatUptime(2*time.Hour))
}
