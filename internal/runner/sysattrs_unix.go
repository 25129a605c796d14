//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr makes the child the leader of a brand-new session,
// detaching it from the supervisor's controlling terminal and giving it a
// process group of its own so a later killpg on the recorded PID reaches
// the whole tree. Spec.md always wants this (there is no non-detached
// mode, unlike provisr's Detached-flag branch this is adapted from).
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
