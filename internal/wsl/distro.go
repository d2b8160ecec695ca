package wsl

import "errors"

// ErrNoRegistry is returned where the Windows registry is unavailable.
var ErrNoRegistry = errors.New("WSL registry lookup requires Windows")

// Distribution describes a registered WSL distribution.
type Distribution struct {
	ID       string
	Name     string
	BasePath string
}
