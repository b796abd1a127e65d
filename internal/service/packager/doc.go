// Package packager turns a runnable jar into native bundles and installers.
//
// Run is the CLI entry point: it loads the configuration and drives a
// Packager, which resolves the target platform, builds the bundle layout,
// collects dependencies, embeds a runtime, composes resources, generates
// installers and finally writes a release manifest. Stages run strictly in
// sequence; degradable ones report a packaging.Outcome instead of failing.
package packager
