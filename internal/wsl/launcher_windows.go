//go:build windows

package wsl

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/yawslgit/yawslgit/internal/argv"
)

func setCommandLine(cmd *exec.Cmd, cmdline string) {
	full := argv.Quote([]string{cmd.Path})
	if cmdline != "" {
		full += " " + cmdline
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:    full,
		HideWindow: true,
	}
}

// DefaultLauncherPath locates wsl.exe. A 32-bit process must go through
// Sysnative to reach the 64-bit System32.
func DefaultLauncherPath() string {
	drive := os.Getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	sysnative := filepath.Join(drive+`\`, "Windows", "Sysnative", "wsl.exe")
	if _, err := os.Stat(sysnative); err == nil {
		return sysnative
	}
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = filepath.Join(drive+`\`, "Windows")
	}
	return filepath.Join(root, "System32", "wsl.exe")
}
