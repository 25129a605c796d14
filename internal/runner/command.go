package runner

import "os/exec"

// buildShellCommand always wraps cmd in /bin/sh -c, unlike provisr's
// Spec.BuildCommand (which skips the shell when it detects no
// metacharacters). pmo descriptors routinely rely on pipelines, heredocs,
// and multi-line continuations, so the shell is never optional here.
func buildShellCommand(cmdline string) *exec.Cmd {
	// #nosec G204
	return exec.Command("/bin/sh", "-c", cmdline)
}
