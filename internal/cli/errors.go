package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/yawslgit/yawslgit/internal/relay"
	"github.com/yawslgit/yawslgit/internal/wsl"
)

// Exit codes reported when the proxy fails before git produces one. git
// itself exits 0, 1, 128 or 129 for its own errors.
const (
	ExitProxyError = 125
	ExitSpawnError = 127
)

func exitCodeFor(err error) int {
	if errors.Is(err, relay.ErrSpawn) {
		return ExitSpawnError
	}
	// The mount query is the first thing to run wsl.exe, so a missing
	// launcher surfaces there.
	if errors.Is(err, wsl.ErrResolve) && launcherMissing(err) {
		return ExitSpawnError
	}
	return ExitProxyError
}

func launcherMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

func reportError(w io.Writer, err error) {
	prefix := "yawslgit:"
	if writerIsTerminal(w) {
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	fmt.Fprintf(w, "%s %v\n", prefix, err)
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
