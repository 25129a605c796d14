package state

import "os"

// OpenLogsForAppend opens (creating if necessary) the stdout/stderr log
// pair for name in append mode, for the Process Runner to wire up as the
// child's stdout/stderr. Callers are responsible for closing both.
func (s *Store) OpenLogsForAppend(name string) (out, errf *os.File, err error) {
	out, err = os.OpenFile(s.OutLogPath(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	errf, err = os.OpenFile(s.ErrLogPath(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		out.Close()
		return nil, nil, err
	}
	return out, errf, nil
}

// LogsExist reports whether either log file for name is present.
func (s *Store) LogsExist(name string) bool {
	if _, err := os.Stat(s.OutLogPath(name)); err == nil {
		return true
	}
	if _, err := os.Stat(s.ErrLogPath(name)); err == nil {
		return true
	}
	return false
}

// TruncateLogs zeroes both log files without unlinking them, so a file
// descriptor already held open by the child remains valid.
func (s *Store) TruncateLogs(name string) error {
	if err := truncateIfExists(s.OutLogPath(name)); err != nil {
		return err
	}
	return truncateIfExists(s.ErrLogPath(name))
}

// DeleteLogs removes both log files, used when flushing a stopped service.
func (s *Store) DeleteLogs(name string) error {
	if err := removeIfExists(s.OutLogPath(name)); err != nil {
		return err
	}
	return removeIfExists(s.ErrLogPath(name))
}

func truncateIfExists(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return f.Truncate(0)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
