package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnsureLayoutCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	info, err := os.Stat(filepath.Join(s.Root(), "pids"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	info, err = os.Stat(filepath.Join(s.Root(), "logs"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestPidRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	_, ok, err := s.ReadPID("web")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.WritePID("web", 4242))
	pid, ok, err := s.ReadPID("web")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4242, pid)

	require.NoError(t, s.RemovePID("web"))
	_, ok, err = s.ReadPID("web")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemovePIDOnAbsentFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())
	require.NoError(t, s.RemovePID("never-started"))
}

func TestStartTimeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	now := time.Now()
	require.NoError(t, s.WriteStartTime("web", now))

	got, ok, err := s.ReadStartTime("web")
	require.NoError(t, err)
	require.True(t, ok)
	require.WithinDuration(t, now, got, time.Millisecond)
}

func TestRestartsIncrementFromZero(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	count, err := s.ReadRestarts("web")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	v, err := s.IncrementRestarts("web")
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = s.IncrementRestarts("web")
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestLogPathsAreHostScoped(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	host, _ := os.Hostname()
	require.Contains(t, s.OutLogPath("web"), host)
	require.Contains(t, s.OutLogPath("web"), "web-out.log")
	require.Contains(t, s.ErrLogPath("web"), "web-error.log")
}

func TestTruncateLogsKeepsFileDescriptorValid(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	out, errf, err := s.OpenLogsForAppend("web")
	require.NoError(t, err)
	defer out.Close()
	defer errf.Close()
	_, err = out.WriteString("hello\n")
	require.NoError(t, err)

	require.NoError(t, s.TruncateLogs("web"))

	info, err := os.Stat(s.OutLogPath("web"))
	require.NoError(t, err)
	require.Equal(t, int64(0), info.Size())

	// Original descriptor is still valid after truncation.
	_, err = out.WriteString("more\n")
	require.NoError(t, err)
}

func TestDeleteLogsRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.EnsureLayout())

	out, errf, err := s.OpenLogsForAppend("web")
	require.NoError(t, err)
	out.Close()
	errf.Close()

	require.True(t, s.LogsExist("web"))
	require.NoError(t, s.DeleteLogs("web"))
	require.False(t, s.LogsExist("web"))

	// Flushing again is idempotent.
	require.NoError(t, s.DeleteLogs("web"))
}
