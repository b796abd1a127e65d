package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/logger"
)

// Config holds every option recognized by the packager.
// YAML keys follow the option names, HCL attributes are their snake_case form.
type Config struct {
	// ProjectDir is the base for relative paths, pom.xml and the dependency tool.
	ProjectDir string `yaml:"projectDir" hcl:"project_dir,optional"`
	// OutputDir receives the app and assets folders and the final artifacts.
	OutputDir string `yaml:"outputDir" hcl:"output_dir,optional"`
	// JarFile is the runnable jar built beforehand.
	JarFile string `yaml:"jarFile" hcl:"jar_file,optional"`
	// JavaHome is the JDK used for jdeps and jlink.
	JavaHome string `yaml:"javaHome" hcl:"java_home,optional"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel" hcl:"log_level,optional"`

	LicenseFile   string `yaml:"licenseFile" hcl:"license_file,optional"`
	IconFile      string `yaml:"iconFile" hcl:"icon_file,optional"`
	JreMinVersion string `yaml:"jreMinVersion" hcl:"jre_min_version,optional"`

	// GenerateInstaller defaults to true.
	GenerateInstaller *bool `yaml:"generateInstaller" hcl:"generate_installer,optional"`

	MainClass   string `yaml:"mainClass" hcl:"main_class,optional"`
	Name        string `yaml:"name" hcl:"name,optional"`
	DisplayName string `yaml:"displayName" hcl:"display_name,optional"`
	Version     string `yaml:"version" hcl:"version,optional"`
	Description string `yaml:"description" hcl:"description,optional"`
	URL         string `yaml:"url" hcl:"url,optional"`

	AdministratorRequired bool `yaml:"administratorRequired" hcl:"administrator_required,optional"`

	OrganizationName  string `yaml:"organizationName" hcl:"organization_name,optional"`
	OrganizationURL   string `yaml:"organizationUrl" hcl:"organization_url,optional"`
	OrganizationEmail string `yaml:"organizationEmail" hcl:"organization_email,optional"`

	BundleJre bool `yaml:"bundleJre" hcl:"bundle_jre,optional"`
	// CustomizedJre defaults to true.
	CustomizedJre *bool  `yaml:"customizedJre" hcl:"customized_jre,optional"`
	JrePath       string `yaml:"jrePath" hcl:"jre_path,optional"`

	AdditionalResources []string `yaml:"additionalResources" hcl:"additional_resources,optional"`
	Modules             []string `yaml:"modules" hcl:"modules,optional"`
	AdditionalModules   []string `yaml:"additionalModules" hcl:"additional_modules,optional"`

	// Platform is auto, windows, linux or mac.
	Platform string `yaml:"platform" hcl:"platform,optional"`
	// Path is passed through to the templates untouched.
	Path string `yaml:"path" hcl:"path,optional"`

	// ProjectLicenses are license URLs declared in pom.xml, first one wins.
	ProjectLicenses []string `yaml:"-"`
}

const (
	// DefaultConfigFilename is the config file looked up when none is given.
	DefaultConfigFilename = "java-packager.yaml"

	// DefaultOutputFolder is the output directory relative to the project.
	DefaultOutputFolder = "target"

	// javaHomeEnv names the environment variable holding the default JDK.
	javaHomeEnv = "JAVA_HOME"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errRequiredOption is returned when a mandatory option has no value.
	errRequiredOption = fmt.Errorf("%w: required option is missing", packaging.ErrConfiguration)
)

// Load reads the configuration file, choosing HCL for .hcl files and YAML otherwise.
// A relative projectDir is resolved against the file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read config: %w", packaging.ErrConfiguration, err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		err = decodeHCL(path, contents, &cfg)
	default:
		err = yaml.Unmarshal(contents, &cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", packaging.ErrConfiguration, path, err)
	}

	baseDir := filepath.Dir(path)

	switch {
	case cfg.ProjectDir == "":
		cfg.ProjectDir = baseDir
	case !filepath.IsAbs(cfg.ProjectDir):
		cfg.ProjectDir = filepath.Join(baseDir, cfg.ProjectDir)
	}

	return &cfg, nil
}

// Validate fills defaults (from pom.xml first, then built-in ones), resolves
// relative paths against ProjectDir and checks required options.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}

	metadata, err := LoadProjectMetadata(cfg.ProjectDir)
	if err != nil {
		return err
	}

	applyProjectMetadata(cfg, metadata)
	applyDefaults(cfg)

	switch {
	case cfg.MainClass == "":
		return fmt.Errorf("%w: mainClass", errRequiredOption)
	case cfg.Name == "":
		return fmt.Errorf("%w: name", errRequiredOption)
	case cfg.Version == "":
		return fmt.Errorf("%w: version", errRequiredOption)
	}

	if _, err = packaging.ParsePlatform(cfg.Platform); err != nil {
		return err
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log level %q", packaging.ErrConfiguration, cfg.LogLevel)
	}

	resolvePaths(cfg)

	return nil
}

// applyProjectMetadata fills unset options from pom.xml.
func applyProjectMetadata(cfg *Config, metadata *ProjectMetadata) {
	if metadata == nil {
		return
	}

	setIfEmpty(&cfg.Name, metadata.Name)
	setIfEmpty(&cfg.Version, metadata.Version)
	setIfEmpty(&cfg.Description, metadata.Description)
	setIfEmpty(&cfg.URL, metadata.URL)
	setIfEmpty(&cfg.OrganizationName, metadata.OrganizationName)
	setIfEmpty(&cfg.OrganizationURL, metadata.OrganizationURL)

	if len(cfg.ProjectLicenses) == 0 {
		for _, license := range metadata.Licenses {
			if license.URL != "" {
				cfg.ProjectLicenses = append(cfg.ProjectLicenses, license.URL)
			}
		}
	}
}

// applyDefaults sets built-in defaults for options still unset.
func applyDefaults(cfg *Config) {
	setIfEmpty(&cfg.DisplayName, cfg.Name)
	setIfEmpty(&cfg.OutputDir, DefaultOutputFolder)
	setIfEmpty(&cfg.JavaHome, os.Getenv(javaHomeEnv))
	setIfEmpty(&cfg.Platform, string(packaging.Auto))
	setIfEmpty(&cfg.LogLevel, "info")

	if cfg.JarFile == "" && cfg.Name != "" && cfg.Version != "" {
		cfg.JarFile = filepath.Join(cfg.OutputDir, cfg.Name+"-"+cfg.Version+"-runnable.jar")
	}

	if cfg.GenerateInstaller == nil {
		cfg.GenerateInstaller = boolPtr(true)
	}

	if cfg.CustomizedJre == nil {
		cfg.CustomizedJre = boolPtr(true)
	}
}

// resolvePaths makes file options absolute relative to ProjectDir.
func resolvePaths(cfg *Config) {
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}

		return filepath.Join(cfg.ProjectDir, path)
	}

	cfg.OutputDir = resolve(cfg.OutputDir)
	cfg.JarFile = resolve(cfg.JarFile)
	cfg.LicenseFile = resolve(cfg.LicenseFile)
	cfg.IconFile = resolve(cfg.IconFile)
	cfg.JrePath = resolve(cfg.JrePath)

	for i, resource := range cfg.AdditionalResources {
		cfg.AdditionalResources[i] = resolve(resource)
	}
}

// IsGenerateInstaller returns the effective generateInstaller flag.
func (c *Config) IsGenerateInstaller() bool {
	return c.GenerateInstaller == nil || *c.GenerateInstaller
}

// IsCustomizedJre returns the effective customizedJre flag.
func (c *Config) IsCustomizedJre() bool {
	return c.CustomizedJre == nil || *c.CustomizedJre
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func boolPtr(v bool) *bool {
	return &v
}
