//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// Host describes the machine the packager runs on.
type Host struct {
	// Hostname is recorded in the release manifest.
	Hostname string
	// Username is recorded in the release manifest.
	Username string
}

// DetectHost gathers the hostname and user of the current process.
func DetectHost() (*Host, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Host{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
