//go:build !windows

package stopper

import "syscall"

// signalGroup delivers sig to every process in the group led by pid, by
// signaling the negative PID. Grounded on provisr's killProcess, extended
// here to the process-group form the graceful-stop protocol requires.
func signalGroup(pid int, sig syscall.Signal) error {
	return syscall.Kill(-pid, sig)
}

// signalOne delivers sig to a single PID, used for the SIGKILL mop-up of
// walked descendants that left the group.
func signalOne(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

func alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
