//go:build !windows

package runner

import "syscall"

// killQuiet cleans up a test-spawned process group; Start always makes the
// child a session leader, so pgid equals pid.
func killQuiet(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
