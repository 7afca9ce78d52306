//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates a process and its children via taskkill
// (/F force, /T tree) so child processes the browser spawned die with it.
func KillProcessGroup(pid int) {
	// Best effort; the launcher already killed the direct child.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
