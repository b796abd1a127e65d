// Package version exposes build metadata for the packager binary.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
package version
