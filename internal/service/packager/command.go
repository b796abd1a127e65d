package packager

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oshokin/java-packager/internal/config"
	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/logger"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is the YAML or HCL configuration (defaults to java-packager.yaml).
	ConfigPath string
	// Platform overrides the configured target platform when set.
	Platform string
	// OutputDir overrides the configured output directory when set.
	OutputDir string
	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// Run loads the configuration and packages the application.
func Run(ctx context.Context, opts *Options, packagerOpts ...Option) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "java-packager")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	applyOverrides(cfg, opts)

	if err = config.Validate(cfg); err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	c, err := NewContext(cfg)
	if err != nil {
		return err
	}

	pkg := New(append([]Option{WithJavaHome(cfg.JavaHome)}, packagerOpts...)...)

	report, err := pkg.Build(ctx, c, Project{
		Dir:         cfg.ProjectDir,
		OutputDir:   cfg.OutputDir,
		LicenseURLs: cfg.ProjectLicenses,
	})
	if err != nil {
		return fmt.Errorf("packaging failed: %w", err)
	}

	printSummary(ctx, report)

	return nil
}

// applyOverrides replaces configured values with the command line ones.
func applyOverrides(cfg *config.Config, opts *Options) {
	if opts.Platform != "" {
		cfg.Platform = opts.Platform
	}

	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
}

// NewContext converts a validated configuration into a packaging context.
func NewContext(cfg *config.Config) (*packaging.Context, error) {
	platform, err := packaging.ParsePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}

	return &packaging.Context{
		Name:          cfg.Name,
		DisplayName:   cfg.DisplayName,
		Version:       cfg.Version,
		Description:   cfg.Description,
		URL:           cfg.URL,
		MainClass:     cfg.MainClass,
		JreMinVersion: cfg.JreMinVersion,
		Path:          cfg.Path,
		Platform:      platform,
		Organization: packaging.Organization{
			Name:  cfg.OrganizationName,
			URL:   cfg.OrganizationURL,
			Email: cfg.OrganizationEmail,
		},
		BundleJre:             cfg.BundleJre,
		CustomizedJre:         cfg.IsCustomizedJre(),
		AdministratorRequired: cfg.AdministratorRequired,
		GenerateInstaller:     cfg.IsGenerateInstaller(),
		JrePath:               cfg.JrePath,
		Modules:               cfg.Modules,
		AdditionalModules:     cfg.AdditionalModules,
		AdditionalResources:   cfg.AdditionalResources,
		Artifacts: packaging.Artifacts{
			JarFile:     cfg.JarFile,
			IconFile:    cfg.IconFile,
			LicenseFile: cfg.LicenseFile,
		},
	}, nil
}

// printSummary logs the produced artifacts and stages in a human-readable form.
func printSummary(ctx context.Context, report *Report) {
	artifacts := make([]string, 0, len(report.Release.Artifacts))
	for name := range report.Release.Artifacts {
		artifacts = append(artifacts, name)
	}

	sort.Strings(artifacts)

	var builder strings.Builder

	builder.WriteString("Bundle created in ")
	builder.WriteString(report.Layout.AppDir)

	if len(artifacts) > 0 {
		builder.WriteString("\nArtifacts in ")
		builder.WriteString(report.Layout.OutputDir)
		builder.WriteString(":\n")
		builder.WriteString(strings.Join(artifacts, ",\n"))
	}

	for _, stage := range report.Release.Stages {
		if stage.Status == packaging.StatusApplied {
			continue
		}

		fmt.Fprintf(&builder, "\nStage %s %s: %s", stage.Stage, stage.Status, stage.Detail)
	}

	logger.Info(ctx, builder.String())
	logger.InfoKV(ctx, "Packaging completed successfully", "manifest", report.ManifestPath)
}
