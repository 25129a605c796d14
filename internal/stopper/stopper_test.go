package stopper

import (
	"context"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/pmo-project/pmo/internal/config"
	"github.com/pmo-project/pmo/internal/pmoerr"
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

func TestStopGracefullyTerminatesPipeline(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	r := runner.New(store)
	c := New(store)

	spec := config.ServiceSpec{Name: "p", Cmd: "yes | head -n 1000000 | wc -l"}
	require.NoError(t, r.Start(spec, false))

	pid, ok, err := store.ReadPID("p")
	require.NoError(t, err)
	require.True(t, ok)

	ctx := context.Background()
	require.NoError(t, c.Stop(ctx, "p", 5*time.Second))

	require.False(t, processAlive(pid))

	_, ok, _ = store.ReadPID("p")
	require.False(t, ok)
	_, ok, _ = store.ReadStartTime("p")
	require.False(t, ok)
}

func TestStopOnNotRunningIsIdempotentNoOp(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	c := New(store)

	err := c.Stop(context.Background(), "ghost", DefaultTimeout)
	var notRunning *pmoerr.NotRunning
	require.ErrorAs(t, err, &notRunning)

	// calling again is still a no-op
	err = c.Stop(context.Background(), "ghost", DefaultTimeout)
	require.ErrorAs(t, err, &notRunning)
}

func TestStopKillsSigtermIgnoringChildAfterTimeout(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	r := runner.New(store)
	c := New(store)

	spec := config.ServiceSpec{Name: "stubborn", Cmd: "trap '' TERM; sleep 30"}
	require.NoError(t, r.Start(spec, false))

	pid, ok, err := store.ReadPID("stubborn")
	require.NoError(t, err)
	require.True(t, ok)

	start := time.Now()
	err = c.Stop(context.Background(), "stubborn", 300*time.Millisecond)
	elapsed := time.Since(start)
	require.Less(t, elapsed, 4*time.Second)
	// SIGKILL can't be trapped, so escalation succeeds and Stop reports the
	// timeout that triggered it rather than UnkillableDescendant.
	var timedOut *pmoerr.StopTimeout
	require.ErrorAs(t, err, &timedOut)

	time.Sleep(200 * time.Millisecond)
	require.False(t, processAlive(pid))
}

func TestStaleLeaderIsCleanedUpOnStop(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	c := New(store)

	require.NoError(t, store.WritePID("x", 999999))
	require.NoError(t, store.WriteStartTime("x", time.Now()))

	err := c.Stop(context.Background(), "x", DefaultTimeout)
	var notRunning *pmoerr.NotRunning
	require.ErrorAs(t, err, &notRunning)

	_, ok, _ := store.ReadPID("x")
	require.False(t, ok)
}

func TestRecycledPidIsReportedAsCorruptionOnStop(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	r := runner.New(store)
	c := New(store)

	spec := config.ServiceSpec{Name: "web", Cmd: "sleep 30"}
	require.NoError(t, r.Start(spec, false))
	pid, ok, err := store.ReadPID("web")
	require.NoError(t, err)
	require.True(t, ok)

	// Overwrite the recorded start time to look like a different generation
	// than the one actually running under this pid.
	require.NoError(t, store.WriteStartTime("web", time.Now().Add(-time.Hour)))

	err = c.Stop(context.Background(), "web", DefaultTimeout)
	var corruption *pmoerr.StateCorruption
	require.ErrorAs(t, err, &corruption)

	_, ok, _ = store.ReadPID("web")
	require.False(t, ok)

	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func TestRestartIncrementsCountOnce(t *testing.T) {
	requireUnix(t)
	store := newStore(t)
	c := New(store)

	spec := config.ServiceSpec{Name: "s", Cmd: "sleep 30"}
	require.NoError(t, c.Runner.Start(spec, false))

	require.NoError(t, c.Restart(context.Background(), spec, 3*time.Second))
	require.NoError(t, c.Restart(context.Background(), spec, 3*time.Second))

	count, err := store.ReadRestarts("s")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	pid, ok, _ := store.ReadPID("s")
	if ok {
		_ = syscall.Kill(-pid, syscall.SIGKILL)
	}
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil
}
