package packaging

import "path/filepath"

// Organization describes the publisher of the application.
type Organization struct {
	Name  string
	URL   string
	Email string
}

// Artifacts holds the file references resolved and defaulted during a run.
type Artifacts struct {
	// JarFile is the runnable application jar.
	JarFile string
	// IconFile is the resolved platform icon.
	IconFile string
	// LicenseFile is a license path or URL, empty when none applies.
	LicenseFile string
	// Executable is the main executable inside the app folder.
	Executable string
}

// Context describes what a single pipeline run packages and how.
// It is owned by the run; only BundleJre is downgraded mid-run.
type Context struct {
	Name          string
	DisplayName   string
	Version       string
	Description   string
	URL           string
	Organization  Organization
	MainClass     string
	JreMinVersion string
	// Path is passed through to the templates untouched.
	Path string

	// Platform is the resolved target, never Auto.
	Platform Platform

	BundleJre             bool
	CustomizedJre         bool
	AdministratorRequired bool
	GenerateInstaller     bool

	// JrePath is an explicit runtime image to embed instead of linking one.
	JrePath             string
	Modules             []string
	AdditionalModules   []string
	AdditionalResources []string

	Artifacts Artifacts
}

// TemplateData returns the key/value view used to render descriptor files.
func (c *Context) TemplateData() map[string]any {
	return map[string]any{
		"name":                  c.Name,
		"displayName":           c.DisplayName,
		"version":               c.Version,
		"description":           c.Description,
		"url":                   c.URL,
		"organizationName":      c.Organization.Name,
		"organizationUrl":       c.Organization.URL,
		"organizationEmail":     c.Organization.Email,
		"administratorRequired": c.AdministratorRequired,
		"bundleJre":             c.BundleJre,
		"jreMinVersion":         c.JreMinVersion,
		"mainClass":             c.MainClass,
		"jarFile":               filepath.Base(c.Artifacts.JarFile),
		"jarPath":               c.Artifacts.JarFile,
		"iconFile":              c.Artifacts.IconFile,
		"iconName":              filepath.Base(c.Artifacts.IconFile),
		"license":               c.Artifacts.LicenseFile,
		"executable":            c.Artifacts.Executable,
		"path":                  c.Path,
	}
}

// ArtifactBaseName returns the "{name}_{version}" prefix of final artifacts.
func (c *Context) ArtifactBaseName() string {
	return c.Name + "_" + c.Version
}
