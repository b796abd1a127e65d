package resources

import "embed"

// files holds the descriptor templates and the default icon of every platform.
//
//go:embed templates assets
var files embed.FS
