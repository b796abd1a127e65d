// Package resources resolves icons and licenses, copies additional
// resources into bundles and renders the descriptor files every platform
// needs: launchers, property lists, desktop entries, package control files,
// executable manifests and installer scripts.
//
// Templates and default icons are embedded in the binary.
package resources
