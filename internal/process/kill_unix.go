//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group (negative PID) so
// child processes the browser spawned die with it.
func KillProcessGroup(pid int) {
	// Best effort; the launcher already killed the direct child.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
