package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	// Callers such as the TortoiseGit shell extension start us from inside
	// explorer.exe; the mousetrap warning would swallow those invocations.
	cobra.MousetrapHelpText = ""
}

// Execute runs the proxy and returns the process exit code: git's own code
// on success, ExitProxyError or ExitSpawnError when the proxy itself failed.
func Execute() int {
	var code int
	cmd := newRootCommand(&code)
	if err := cmd.Execute(); err != nil {
		reportError(cmd.ErrOrStderr(), err)
		return exitCodeFor(err)
	}
	return code
}

func newRootCommand(code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yawslgit [git arguments...]",
		Short: "Run git inside WSL, translating Windows paths on the way in",
		Long: `yawslgit stands in for git.exe. Every argument is handed to git running in
WSL, with Windows drive paths rewritten to their WSL mount points. It has no
flags of its own.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := runProxy(cmd, args)
			*code = c
			return err
		},
	}
	return cmd
}
