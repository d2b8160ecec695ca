//go:build !windows

package wsl

import (
	"os/exec"

	"github.com/yawslgit/yawslgit/internal/argv"
)

// Without a raw command line to hand over, the line is split back into argv
// with the same rules the Windows C runtime would apply.
func setCommandLine(cmd *exec.Cmd, cmdline string) {
	cmd.Args = append([]string{cmd.Args[0]}, argv.Split(cmdline)...)
}

// DefaultLauncherPath locates wsl.exe.
func DefaultLauncherPath() string {
	if path, err := exec.LookPath("wsl.exe"); err == nil {
		return path
	}
	return "wsl.exe"
}
