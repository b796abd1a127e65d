// Package config defines the packaging options and helpers to load them from
// YAML or HCL files, fill defaults from the project's pom.xml and validate
// the result.
package config
