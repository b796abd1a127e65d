package packager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/resources"
)

// windowsHandler wraps the jar into an executable with launch4j and builds an
// Inno Setup installer.
type windowsHandler struct{}

func (windowsHandler) layout(c *packaging.Context, outputDir string) *Layout {
	l := baseLayout(outputDir)
	l.Executable = filepath.Join(l.AppDir, c.Name+".exe")

	return l
}

// launch4jTool returns the console launch4j binary of the host.
func launch4jTool(host packaging.Platform) string {
	if host == packaging.Windows {
		return "launch4jc"
	}

	return "launch4j"
}

func (windowsHandler) bundle(ctx context.Context, r *run) error {
	logger.Info(ctx, "Creating Windows app bundle")

	manifest := filepath.Join(r.layout.AssetsDir, r.c.Name+".exe.manifest")
	if err := resources.Render(ctx, resources.WindowsManifest, manifest, r.data(nil)); err != nil {
		return err
	}

	if err := r.composer.CopyResources(ctx, r.bundleResources(), r.layout.ResourcesDir); err != nil {
		return err
	}

	config := filepath.Join(r.layout.AssetsDir, r.c.Name+"-launch4j.xml")

	err := resources.Render(ctx, resources.WindowsLaunch4j, config, r.data(map[string]any{
		"manifest": manifest,
	}))
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Creating executable", "path", r.layout.Executable)

	_, err = r.runner.Run(ctx, common.Command{
		Name: launch4jTool(r.host),
		Args: []string{config},
		Dir:  r.layout.AssetsDir,
	})
	if err != nil {
		return fmt.Errorf("create executable: %w", err)
	}

	return nil
}

func (windowsHandler) installer(ctx context.Context, r *run) error {
	logger.Info(ctx, "Generating Windows installer")

	icon, err := fsutil.CopyFileToDir(r.c.Artifacts.IconFile, r.layout.AssetsDir)
	if err != nil {
		return fmt.Errorf("copy icon: %w", err)
	}

	licenseFile := ""
	if license := r.c.Artifacts.LicenseFile; license != "" && fsutil.Exists(license) {
		licenseFile = license
	}

	script := filepath.Join(r.layout.AssetsDir, r.c.Name+".iss")

	err = resources.Render(ctx, resources.WindowsInstaller, script, r.data(map[string]any{
		"appDir":      r.layout.AppDir,
		"iconFile":    icon,
		"licenseFile": licenseFile,
	}))
	if err != nil {
		return err
	}

	_, err = r.runner.Run(ctx, common.Command{
		Name: "iscc",
		Args: []string{"/O" + r.layout.OutputDir, "/F" + r.c.ArtifactBaseName(), script},
	})
	if err != nil {
		return fmt.Errorf("compile installer: %w", err)
	}

	r.addArtifact(ctx, filepath.Join(r.layout.OutputDir, r.c.ArtifactBaseName()+".exe"))
	r.record(ctx, packaging.Applied(installerStage))

	return nil
}
