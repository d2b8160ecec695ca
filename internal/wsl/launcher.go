// Package wsl launches commands inside a WSL distribution and discovers the
// drive mounts that distribution exposes.
package wsl

import (
	"context"
	"os/exec"
	"strings"

	"github.com/yawslgit/yawslgit/internal/argv"
)

// Launcher runs command lines through wsl.exe.
type Launcher struct {
	// Path to wsl.exe.
	Path string
	// Distribution selects a non-default distribution (wsl.exe -d).
	Distribution string
}

// CommandLine returns the arguments passed to wsl.exe for cmdline, without
// the executable itself.
func (l Launcher) CommandLine(cmdline string) string {
	var parts []string
	if l.Distribution != "" {
		parts = append(parts, argv.Quote([]string{"-d", l.Distribution}))
	}
	if cmdline != "" {
		parts = append(parts, cmdline)
	}
	return strings.Join(parts, " ")
}

// Command prepares wsl.exe to run cmdline. The command line is handed to
// wsl.exe verbatim; it is not re-quoted.
func (l Launcher) Command(ctx context.Context, cmdline string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, l.Path)
	setCommandLine(cmd, l.CommandLine(cmdline))
	return cmd
}
