package cli

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/yawslgit/yawslgit/internal/relay"
)

// tortoiseGitDiffIndex is the exact command line TortoiseGit uses to probe
// for changes. Inside WSL it reports stale results unless the index was
// refreshed first, which `git status` does as a side effect.
// See https://gitlab.com/tortoisegit/tortoisegit/issues/3380.
const tortoiseGitDiffIndex = "diff-index --raw HEAD --numstat -C50% -M50% -z --"

func needsStatusWorkaround(argsOnly string) bool {
	return argsOnly == tortoiseGitDiffIndex
}

// runStatusWorkaround runs `git status` to completion, discarding its
// output. Its failure is logged and otherwise ignored.
func (r *runner) runStatusWorkaround(ctx context.Context) {
	cmd := r.launcher.Command(ctx, r.gitCommand("status"))
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	err := cmd.Run()
	r.log.Info("workaround",
		zap.String("invocation", r.launcher.CommandLine(r.gitCommand("status"))),
		zap.Int("code", relay.ExitCode(err)),
		zap.Error(err),
	)
}
