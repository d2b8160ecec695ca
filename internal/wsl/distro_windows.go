//go:build windows

package wsl

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const lxssKey = `Software\Microsoft\Windows\CurrentVersion\Lxss`

// DefaultDistribution reads the user's default distribution from the
// registry.
func DefaultDistribution() (Distribution, error) {
	lxss, err := registry.OpenKey(registry.CURRENT_USER, lxssKey, registry.QUERY_VALUE)
	if err != nil {
		return Distribution{}, fmt.Errorf("open HKCU\\%s: %w", lxssKey, err)
	}
	defer lxss.Close()

	id, _, err := lxss.GetStringValue("DefaultDistribution")
	if err != nil {
		return Distribution{}, fmt.Errorf("read DefaultDistribution: %w", err)
	}

	sub, err := registry.OpenKey(registry.CURRENT_USER, lxssKey+`\`+id, registry.QUERY_VALUE)
	if err != nil {
		return Distribution{}, fmt.Errorf("open distribution %s: %w", id, err)
	}
	defer sub.Close()

	d := Distribution{ID: id}
	if d.Name, _, err = sub.GetStringValue("DistributionName"); err != nil {
		return Distribution{}, fmt.Errorf("read DistributionName of %s: %w", id, err)
	}
	// BasePath is informational; older registrations may omit it.
	d.BasePath, _, _ = sub.GetStringValue("BasePath")
	return d, nil
}
