package state

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pmo-project/pmo/internal/pmoerr"
)

// WritePID writes the decimal PID last in the start sequence, after the
// time and restarts files.
func (s *Store) WritePID(name string, pid int) error {
	return writeFileAtomic(s.PidPath(name), []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPID returns the recorded PID for name, or ok=false if no pid file
// exists, which means the service is not running.
func (s *Store) ReadPID(name string) (pid int, ok bool, err error) {
	b, err := os.ReadFile(s.PidPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	v, perr := strconv.Atoi(strings.TrimSpace(string(b)))
	if perr != nil {
		return 0, false, &pmoerr.StateCorruption{Name: name, Reason: "unparseable pid file: " + perr.Error()}
	}
	return v, true, nil
}

// RemovePID deletes the pid file. This is always the last filesystem step
// of a successful stop.
func (s *Store) RemovePID(name string) error {
	if err := os.Remove(s.PidPath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteStartTime records the current wall-clock start time for name.
func (s *Store) WriteStartTime(name string, t time.Time) error {
	secs := float64(t.UnixNano()) / 1e9
	return writeFileAtomic(s.TimePath(name), []byte(strconv.FormatFloat(secs, 'f', 6, 64)), 0o644)
}

// ReadStartTime returns the recorded start time, or ok=false if absent.
func (s *Store) ReadStartTime(name string) (t time.Time, ok bool, err error) {
	b, err := os.ReadFile(s.TimePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	secs, perr := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if perr != nil {
		return time.Time{}, false, &pmoerr.StateCorruption{Name: name, Reason: "unparseable time file: " + perr.Error()}
	}
	ns := int64(secs * 1e9)
	return time.Unix(0, ns), true, nil
}

// RemoveStartTime deletes the time file. Removed as the second step of a
// successful stop, after signaling but before leaving the restarts file.
func (s *Store) RemoveStartTime(name string) error {
	if err := os.Remove(s.TimePath(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ReadRestarts returns the recorded restart count, defaulting to 0 when the
// file is absent.
func (s *Store) ReadRestarts(name string) (int, error) {
	b, err := os.ReadFile(s.RestartsPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	v, perr := strconv.Atoi(strings.TrimSpace(string(b)))
	if perr != nil {
		return 0, &pmoerr.StateCorruption{Name: name, Reason: "unparseable restarts file: " + perr.Error()}
	}
	if v < 0 {
		v = 0
	}
	return v, nil
}

// IncrementRestarts reads the current count (0 if absent), writes count+1,
// and returns the new value. Called only on a successful restart, never on
// a manual stop+start pair.
func (s *Store) IncrementRestarts(name string) (int, error) {
	cur, err := s.ReadRestarts(name)
	if err != nil {
		return 0, err
	}
	next := cur + 1
	if err := writeFileAtomic(s.RestartsPath(name), []byte(strconv.Itoa(next)), 0o644); err != nil {
		return 0, err
	}
	return next, nil
}
