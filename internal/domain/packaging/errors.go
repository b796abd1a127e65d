package packaging

import "errors"

var (
	// ErrConfiguration is returned for missing or invalid options.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidRuntimePath is returned when jrePath is missing or not a directory.
	ErrInvalidRuntimePath = errors.New("invalid runtime path")
	// ErrUnsupportedPlatform is returned when the host OS is not recognized.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrUnsupportedToolchain is returned when a runtime must be linked by a JDK older than 9.
	ErrUnsupportedToolchain = errors.New("unsupported toolchain")
	// ErrExternalTool is returned when a collaborator process exits with a non-zero status.
	ErrExternalTool = errors.New("external tool failure")
	// ErrResourceMissing marks an absent optional file or folder. It is never fatal.
	ErrResourceMissing = errors.New("resource missing")
)
