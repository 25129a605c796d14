// Package state owns the on-disk layout under .pmo/<hostname>/: pid, time,
// and restart-count files per service, plus the two log files. It never
// inspects file contents beyond the narrow pid/time/restarts formats, and
// is the only package that touches these paths directly.
package state

import (
	"os"
	"path/filepath"
)

// DirName is the top-level state directory created next to the descriptor.
const DirName = ".pmo"

// Store resolves every on-disk path for one host scope and owns directory
// creation. It holds no per-service data; every method is a pure path
// computation or a filesystem read/write keyed by service name.
type Store struct {
	root string // <descriptor-dir>/.pmo/<hostname>
}

// Open builds a Store rooted at descDir/.pmo/<hostname>, resolving hostname
// once via os.Hostname. A descriptor shared over a network filesystem by
// multiple machines will not alias PIDs across hosts.
func Open(descDir string) (*Store, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	return &Store{root: filepath.Join(descDir, DirName, host)}, nil
}

// EnsureLayout creates the pids/ and logs/ directories if absent. Idempotent.
func (s *Store) EnsureLayout() error {
	if err := os.MkdirAll(s.pidsDir(), 0o755); err != nil {
		return err
	}
	return os.MkdirAll(s.logsDir(), 0o755)
}

func (s *Store) pidsDir() string { return filepath.Join(s.root, "pids") }
func (s *Store) logsDir() string { return filepath.Join(s.root, "logs") }

// PidPath is the decimal-PID file for name.
func (s *Store) PidPath(name string) string { return filepath.Join(s.pidsDir(), name+".pid") }

// TimePath is the fractional-seconds-since-epoch start time file for name.
func (s *Store) TimePath(name string) string { return filepath.Join(s.pidsDir(), name+".time") }

// RestartsPath is the non-negative-integer restart counter file for name.
func (s *Store) RestartsPath(name string) string {
	return filepath.Join(s.pidsDir(), name+".restarts")
}

// OutLogPath is the append-only stdout log for name.
func (s *Store) OutLogPath(name string) string {
	return filepath.Join(s.logsDir(), name+"-out.log")
}

// ErrLogPath is the append-only stderr log for name.
func (s *Store) ErrLogPath(name string) string {
	return filepath.Join(s.logsDir(), name+"-error.log")
}

// Root exposes the host-scoped root for callers that need to display it
// (e.g. dry-run output).
func (s *Store) Root() string { return s.root }
