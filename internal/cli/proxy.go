package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yawslgit/yawslgit/internal/argv"
	"github.com/yawslgit/yawslgit/internal/config"
	"github.com/yawslgit/yawslgit/internal/debuglog"
	"github.com/yawslgit/yawslgit/internal/mounts"
	"github.com/yawslgit/yawslgit/internal/relay"
	"github.com/yawslgit/yawslgit/internal/version"
	"github.com/yawslgit/yawslgit/internal/wsl"
)

// runner holds everything one invocation needs, built once at startup.
type runner struct {
	cfg      config.Config
	launcher wsl.Launcher
	log      *debuglog.Log

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func runProxy(cmd *cobra.Command, args []string) (int, error) {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return ExitProxyError, err
	}

	logPath := cfg.Log.File
	if logPath == "" && cfgPath != "" {
		logPath = filepath.Join(filepath.Dir(cfgPath), "yawslgit.log")
	}
	log := debuglog.Open(logPath)
	defer log.Close()

	log.Info("CL",
		zap.String("command_line", strings.Join(os.Args, " ")),
		zap.String("version", version.String()),
	)
	log.Info("Args", zap.Strings("args", args))

	r := &runner{
		cfg:      cfg,
		launcher: launcherFor(cfg, log),
		log:      log,
		stdin:    cmd.InOrStdin(),
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}
	return r.run(cmd.Context(), args)
}

// loadConfig falls back to defaults when there is no config directory or
// file. A file that exists but does not parse is an error.
func loadConfig() (config.Config, string, error) {
	path, err := config.Path()
	if err != nil {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}
	return cfg, path, nil
}

func launcherFor(cfg config.Config, log *debuglog.Log) wsl.Launcher {
	l := wsl.Launcher{
		Path:         cfg.WSL.Launcher,
		Distribution: cfg.WSL.Distribution,
	}
	if l.Path == "" {
		l.Path = wsl.DefaultLauncherPath()
	}
	if l.Distribution == "" {
		d, err := wsl.DefaultDistribution()
		if err != nil {
			log.Debug("default distribution unavailable", zap.Error(err))
		} else {
			l.Distribution = d.Name
			log.Debug("default distribution",
				zap.String("id", d.ID),
				zap.String("name", d.Name),
				zap.String("base_path", d.BasePath),
			)
		}
	}
	return l
}

func (r *runner) run(ctx context.Context, args []string) (int, error) {
	table, err := wsl.Resolver{Launcher: r.launcher}.Resolve(ctx)
	if err != nil {
		return ExitProxyError, err
	}
	if r.log.Enabled() {
		r.log.Debug("mounts",
			zap.Int("drives", table.Len()),
			zap.Any("entries", table.Entries()),
		)
	}

	translated, err := table.TranslateArgs(args)
	if err != nil {
		return ExitProxyError, err
	}
	argsOnly := argv.Quote(translated)

	if r.cfg.Workarounds.TortoiseGitStatusEnabled() && needsStatusWorkaround(argsOnly) {
		r.runStatusWorkaround(ctx)
	}

	invocation := r.gitCommand(argsOnly)
	r.log.Info("Invoke", zap.String("invocation", r.launcher.CommandLine(invocation)))

	child, err := relay.Start(r.launcher.Command(ctx, invocation))
	if err != nil {
		return ExitSpawnError, err
	}

	stdout, stderr := r.stdout, r.stderr
	var flush []*mounts.LineTranslator
	if r.cfg.Output.TranslatePaths {
		out, errOut := mounts.NewLineTranslator(stdout, table), mounts.NewLineTranslator(stderr, table)
		stdout, stderr = out, errOut
		flush = append(flush, out, errOut)
	}

	stopInterrupts := ignoreInterrupts()
	proxy := &relay.Proxy{
		Stdin:  r.stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: r.log.Logger,
	}
	code, err := proxy.Run(child)
	stopInterrupts()

	for _, lt := range flush {
		if ferr := lt.Close(); ferr != nil {
			r.log.Warn("flush output", zap.Error(ferr))
		}
	}
	if err != nil {
		return ExitProxyError, err
	}
	r.log.Info("exit", zap.Int("code", code))
	return code, nil
}

func (r *runner) gitCommand(argsOnly string) string {
	if argsOnly == "" {
		return r.cfg.WSL.Git
	}
	return r.cfg.WSL.Git + " " + argsOnly
}

// ignoreInterrupts keeps Ctrl-C from killing the proxy while git, which
// shares the console, decides how to handle it. A handler rather than
// signal.Ignore is used so the child does not inherit an ignored SIGINT.
func ignoreInterrupts() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return func() { signal.Stop(ch) }
}
