package resources

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
)

// Stage names the resource step in outcomes and manifests.
const Stage = "resources"

const (
	projectAssetsFolder = "assets"
	defaultIconName     = "default-icon"
)

// Composer resolves and copies the files a bundle is made of besides the
// application itself.
type Composer struct {
	projectDir string
	assetsDir  string
}

// NewComposer creates a composer looking up project assets in projectDir and
// writing intermediate files to assetsDir.
func NewComposer(projectDir, assetsDir string) *Composer {
	return &Composer{
		projectDir: projectDir,
		assetsDir:  assetsDir,
	}
}

// ResolveIcon returns the icon to bundle for the platform. Without a
// configured icon it looks for assets/{platform}/{name}{ext} in the project;
// when the icon does not exist the embedded default is written to the assets
// folder and used instead.
func (c *Composer) ResolveIcon(ctx context.Context, platform packaging.Platform, name, configured string) (string, error) {
	icon := configured
	if icon == "" {
		icon = filepath.Join(c.projectDir, projectAssetsFolder, platform.String(), name+platform.IconExtension())
	}

	if fsutil.Exists(icon) {
		return icon, nil
	}

	if configured != "" {
		logger.WarnKV(ctx, "Icon file not found, using the default icon", "path", configured)
	}

	content, err := files.ReadFile(path.Join("assets", platform.String(), defaultIconName+platform.IconExtension()))
	if err != nil {
		return "", fmt.Errorf("read default %s icon: %w", platform, err)
	}

	if err = fsutil.EnsureDir(c.assetsDir); err != nil {
		return "", err
	}

	dst := filepath.Join(c.assetsDir, filepath.Base(icon))
	if err = os.WriteFile(dst, content, renderedFileMode); err != nil {
		return "", fmt.Errorf("write default icon: %w", err)
	}

	logger.DebugKV(ctx, "Using default icon", "path", dst)

	return dst, nil
}

// ResolveLicense returns the license to ship: the configured file when it
// exists, otherwise the first license URL declared by the project, otherwise
// nothing. A configured file that does not exist is dropped with a warning.
func (c *Composer) ResolveLicense(ctx context.Context, configured string, licenseURLs []string) string {
	if configured != "" {
		if fsutil.Exists(configured) {
			return configured
		}

		logger.WarnKV(ctx, "License file not found, ignoring it",
			"path", configured, "error", missing(configured))
	}

	if len(licenseURLs) > 0 {
		return licenseURLs[0]
	}

	return ""
}

// CopyResources copies every file or folder into dest. Folders are copied as
// a folder. Missing resources are skipped with a warning; copy failures are
// returned.
func (c *Composer) CopyResources(ctx context.Context, resources []string, dest string) error {
	for _, resource := range resources {
		if !fsutil.Exists(resource) {
			logger.WarnKV(ctx, "Additional resource not found, skipping it",
				"path", resource, "error", missing(resource))

			continue
		}

		var err error
		if fsutil.IsDir(resource) {
			_, err = fsutil.CopyDirToDir(resource, dest)
		} else {
			_, err = fsutil.CopyFileToDir(resource, dest)
		}

		if err != nil {
			return fmt.Errorf("copy additional resource %s: %w", resource, err)
		}

		logger.DebugKV(ctx, "Copied additional resource", "path", resource, "destination", dest)
	}

	return nil
}

func missing(path string) error {
	return fmt.Errorf("%w: %s", packaging.ErrResourceMissing, path)
}
