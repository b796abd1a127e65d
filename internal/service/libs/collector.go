// Package libs copies the runtime dependencies of the application into the
// bundle's flat libs folder.
package libs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
)

// Stage names the dependency step in outcomes and manifests.
const Stage = "libs"

// Collector fills libsDir with one jar per runtime dependency of the project.
type Collector interface {
	Collect(ctx context.Context, projectDir, libsDir string) error
}

// MavenCollector delegates to the maven-dependency-plugin.
type MavenCollector struct {
	runner common.Runner
	// executable is mvn unless overridden.
	executable string
}

// NewMavenCollector creates a collector running mvn through runner.
// An empty executable resolves mvn through PATH.
func NewMavenCollector(runner common.Runner, executable string) *MavenCollector {
	if executable == "" {
		executable = "mvn"
	}

	return &MavenCollector{
		runner:     runner,
		executable: executable,
	}
}

// Collect runs `mvn dependency:copy-dependencies` in projectDir.
func (c *MavenCollector) Collect(ctx context.Context, projectDir, libsDir string) error {
	if err := fsutil.EnsureDir(libsDir); err != nil {
		return err
	}

	absLibs, err := filepath.Abs(libsDir)
	if err != nil {
		return fmt.Errorf("resolve libs folder: %w", err)
	}

	logger.InfoKV(ctx, "Copying dependencies", "libs", absLibs)

	_, err = c.runner.Run(ctx, common.Command{
		Name: c.executable,
		Args: []string{
			"-q",
			"dependency:copy-dependencies",
			"-DoutputDirectory=" + absLibs,
			"-DincludeScope=runtime",
		},
		Dir: projectDir,
	})
	if err != nil {
		return fmt.Errorf("copy dependencies: %w", err)
	}

	entries, err := os.ReadDir(absLibs)
	if err != nil {
		return fmt.Errorf("read libs folder: %w", err)
	}

	logger.DebugKV(ctx, "Dependencies copied", "count", len(entries))

	return nil
}
