//go:build windows

package runner

import "os/exec"

// setProcGroup is a no-op on Windows: there are no POSIX process groups,
// and exec.CommandContext's default kill covers the direct child.
func setProcGroup(cmd *exec.Cmd) {}
