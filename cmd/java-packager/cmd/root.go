package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/java-packager/internal/config"
	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/packager"
	"github.com/oshokin/java-packager/internal/version"
)

// Exit codes returned by the java-packager CLI.
const (
	// ExitFailure indicates a packaging failure (a tool failed, a file could not be written).
	ExitFailure = 1
	// ExitConfigError indicates invalid or missing options.
	ExitConfigError = 2
	// ExitEnvError indicates that the host or the JDK cannot produce the requested package.
	ExitEnvError = 3
)

var (
	// options collects the flag values passed to the packager.
	options packager.Options

	// rootCmd represents the base command for packaging a Java application.
	rootCmd = &cobra.Command{
		Use:   "java-packager",
		Short: "Bundle a Java application into native packages.",
		Long: `Turns a runnable jar into a native application bundle.

Copies the runtime dependencies, optionally embeds a trimmed Java runtime,
generates the platform launcher and, when the host allows it, the installers:
an Inno Setup installer on Windows, DEB and RPM packages on Linux and a disk image on macOS.
Every step is recorded in a YAML manifest next to the produced artifacts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return packager.Run(ctx, &options)
		},
	}
)

// Execute runs the java-packager CLI and exits with a status matching the failure.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, packaging.ErrConfiguration), errors.Is(err, packaging.ErrInvalidRuntimePath):
		return ExitConfigError
	case errors.Is(err, packaging.ErrUnsupportedPlatform), errors.Is(err, packaging.ErrUnsupportedToolchain):
		return ExitEnvError
	default:
		return ExitFailure
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file (.yaml or .hcl)")
	flags.StringVarP(&options.Platform, "platform", "p", "", "target platform: auto, windows, linux or mac")
	flags.StringVarP(&options.OutputDir, "output-dir", "o", "", "folder receiving the bundle and installers")
	flags.StringVar(&options.LogLevel, "log-level", "", "log level: debug, info, warn or error")
}
