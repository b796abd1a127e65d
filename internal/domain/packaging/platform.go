package packaging

import (
	"fmt"
	"strings"
)

// Platform identifies a packaging target.
type Platform string

const (
	// Auto resolves to the host platform at pipeline start.
	Auto Platform = "auto"
	// Windows produces an executable and an Inno Setup installer.
	Windows Platform = "windows"
	// Linux produces a self-executing launcher and DEB/RPM packages.
	Linux Platform = "linux"
	// Mac produces an app bundle and a disk image.
	Mac Platform = "mac"
)

// ParsePlatform converts a configuration value into a Platform.
// An empty value means Auto.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Auto, nil
	case Auto, Windows, Linux, Mac:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown platform %q (expected auto, windows, linux or mac)", ErrConfiguration, s)
	}
}

// HostPlatform maps a GOOS value to a Platform.
func HostPlatform(goos string) (Platform, error) {
	switch strings.ToLower(goos) {
	case "windows":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin":
		return Mac, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// ResolvePlatform returns the effective target for a declared platform.
// The host is always validated, so an unrecognized host fails even when the
// declared target is explicit.
func ResolvePlatform(declared Platform, goos string) (target, host Platform, err error) {
	host, err = HostPlatform(goos)
	if err != nil {
		return "", "", err
	}

	if declared == "" || declared == Auto {
		return host, host, nil
	}

	return declared, host, nil
}

// IconExtension returns the icon file extension used on the platform.
func (p Platform) IconExtension() string {
	switch p {
	case Windows:
		return ".ico"
	case Mac:
		return ".icns"
	default:
		return ".png"
	}
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}
