package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const envConfig = "YAWSLGIT_CONFIG"

// Config captures the user editable settings stored in config.toml.
type Config struct {
	WSL         WSLBlock        `toml:"wsl"`
	Log         LogBlock        `toml:"log"`
	Output      OutputBlock     `toml:"output"`
	Workarounds WorkaroundBlock `toml:"workarounds"`
}

// WSLBlock selects how git is reached inside WSL.
type WSLBlock struct {
	Launcher     string `toml:"launcher"`
	Distribution string `toml:"distribution"`
	Git          string `toml:"git"`
}

// LogBlock points at the optional debug log. Logging happens only when the
// file already exists.
type LogBlock struct {
	File string `toml:"file"`
}

// OutputBlock governs rewriting of git's output. With TranslatePaths set,
// WSL mount points in git's stdout and stderr are rewritten to drive paths.
type OutputBlock struct {
	TranslatePaths bool `toml:"translate_paths"`
}

// WorkaroundBlock toggles caller-specific compatibility hacks.
type WorkaroundBlock struct {
	TortoiseGitStatus *bool `toml:"tortoisegit_status"`
}

// TortoiseGitStatusEnabled reports whether `git status` runs ahead of
// TortoiseGit's diff-index probe.
func (w WorkaroundBlock) TortoiseGitStatusEnabled() bool {
	if w.TortoiseGitStatus == nil {
		return true
	}
	return *w.TortoiseGitStatus
}

var (
	// ErrInvalidGit indicates the git command name is empty or contains whitespace.
	ErrInvalidGit = errors.New("config.wsl.git must be a single command name")
)

// Default returns the baseline configuration.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.WSL.Git == "" {
		c.WSL.Git = "git"
	}
}

// Validate ensures the configuration can drive the proxy.
func (c Config) Validate() error {
	if c.WSL.Git == "" || strings.ContainsAny(c.WSL.Git, " \t\r\n") {
		return ErrInvalidGit
	}
	return nil
}

// Path reports where configuration is read from: $YAWSLGIT_CONFIG, else
// yawslgit/config.toml under the user config directory.
func Path() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "yawslgit", "config.toml"), nil
}

// Load reads configuration from disk. Missing files return a default config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
