package wsl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yawslgit/yawslgit/internal/mounts"
)

// ErrResolve indicates the mount table could not be obtained from WSL.
var ErrResolve = errors.New("unable to resolve WSL drive mounts")

// Resolver queries a distribution for its drive mounts.
type Resolver struct {
	Launcher Launcher
}

// Resolve runs `cat /proc/mounts` inside the distribution and builds the
// mount table from its drive entries. A table with no drives is an error:
// proceeding without one would hand untranslated Windows paths to git.
func (r Resolver) Resolve(ctx context.Context) (*mounts.Table, error) {
	cmd := r.Launcher.Command(ctx, "cat /proc/mounts")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			msg = "\n" + msg
		}
		return nil, fmt.Errorf("%w: %s cat /proc/mounts: %w%s", ErrResolve, r.Launcher.Path, err, msg)
	}

	entries, err := mounts.ParseProcMounts(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no drive mounts reported", ErrResolve)
	}
	table, err := mounts.NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	return table, nil
}
