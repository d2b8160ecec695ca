//go:build !windows

package wsl

// DefaultDistribution always fails off Windows.
func DefaultDistribution() (Distribution, error) {
	return Distribution{}, ErrNoRegistry
}
