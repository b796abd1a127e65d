package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/resources"
)

const (
	macApplicationsLink = "Applications"
	macApplicationsDir  = "/Applications"
	codesignStage       = "codesign"
)

// macHandler builds a {name}.app bundle and a disk image.
type macHandler struct{}

func (macHandler) layout(c *packaging.Context, outputDir string) *Layout {
	l := baseLayout(outputDir)

	contents := filepath.Join(l.AppDir, c.Name+".app", "Contents")

	l.BundleDir = filepath.Dir(contents)
	l.ResourcesDir = filepath.Join(contents, "Resources")
	l.JavaDir = filepath.Join(l.ResourcesDir, "Java")
	l.LibsDir = filepath.Join(l.JavaDir, libsFolder)
	l.RuntimeDir = filepath.Join(contents, "PlugIns", jreFolder, "Contents", "Home")
	l.Executable = filepath.Join(contents, "MacOS", "startup")

	return l
}

func (macHandler) bundle(ctx context.Context, r *run) error {
	logger.Info(ctx, "Creating Mac OS X app bundle")

	if _, err := fsutil.CopyFileToDir(r.c.Artifacts.JarFile, r.layout.JavaDir); err != nil {
		return fmt.Errorf("copy jar: %w", err)
	}

	data := r.data(nil)

	if err := resources.Render(ctx, resources.MacStartup, r.layout.Executable, data); err != nil {
		return err
	}

	if err := os.Chmod(r.layout.Executable, fsutil.ExecutableMode); err != nil {
		return fmt.Errorf("chmod startup: %w", err)
	}

	if _, err := fsutil.CopyFileToDir(r.c.Artifacts.IconFile, r.layout.ResourcesDir); err != nil {
		return fmt.Errorf("copy icon: %w", err)
	}

	infoPlist := filepath.Join(filepath.Dir(r.layout.ResourcesDir), "Info.plist")
	if err := resources.Render(ctx, resources.MacInfoPlist, infoPlist, data); err != nil {
		return err
	}

	if err := r.composer.CopyResources(ctx, r.bundleResources(), r.layout.ResourcesDir); err != nil {
		return err
	}

	return codesign(ctx, r)
}

// codesign applies an ad-hoc signature, which only a mac host can do.
func codesign(ctx context.Context, r *run) error {
	if r.host != packaging.Mac {
		r.record(ctx, packaging.Skipped(codesignStage, "code signing requires a mac host"))

		return nil
	}

	logger.InfoKV(ctx, "Signing app bundle", "path", r.layout.BundleDir)

	_, err := r.runner.Run(ctx, common.Command{
		Name: "codesign",
		Args: []string{"--force", "--deep", "--sign", "-", r.layout.BundleDir},
	})
	if err != nil {
		return fmt.Errorf("sign app bundle: %w", err)
	}

	r.record(ctx, packaging.Applied(codesignStage))

	return nil
}

func (macHandler) installer(ctx context.Context, r *run) error {
	logger.Info(ctx, "Generating DMG disk image")

	if err := fsutil.Symlink(macApplicationsDir, filepath.Join(r.layout.AppDir, macApplicationsLink)); err != nil {
		return err
	}

	image := filepath.Join(r.layout.OutputDir, r.c.ArtifactBaseName()+".dmg")

	// hdiutil refuses to overwrite an existing image.
	if err := os.RemoveAll(image); err != nil {
		return fmt.Errorf("remove previous disk image: %w", err)
	}

	_, err := r.runner.Run(ctx, common.Command{
		Name: "hdiutil",
		Args: []string{"create", "-srcfolder", r.layout.AppDir, "-volname", r.c.Name, image},
	})
	if err != nil {
		return fmt.Errorf("create disk image: %w", err)
	}

	r.addArtifact(ctx, image)
	r.record(ctx, packaging.Applied(installerStage))

	return nil
}
