// Package common holds helpers shared by the packaging services.
//
// It provides the single capability through which every external tool is
// invoked (Runner: arguments and a working directory in, combined output and
// exit status out) and detection of the host the packager runs on.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
