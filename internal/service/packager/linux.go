package packager

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/resources"
)

const (
	linuxInstallRoot   = "/opt"
	linuxDesktopDir    = "/usr/share/applications"
	linuxBinDir        = "/usr/local/bin"
	linuxStartupScript = "startup.sh"
)

// linuxHandler builds a self-executing launcher and DEB/RPM packages.
type linuxHandler struct{}

func (linuxHandler) layout(c *packaging.Context, outputDir string) *Layout {
	l := baseLayout(outputDir)
	l.Executable = filepath.Join(l.AppDir, c.Name)

	return l
}

func (linuxHandler) bundle(ctx context.Context, r *run) error {
	logger.Info(ctx, "Creating GNU/Linux app bundle")

	if _, err := fsutil.CopyFileToDir(r.c.Artifacts.IconFile, r.layout.AppDir); err != nil {
		return fmt.Errorf("copy icon: %w", err)
	}

	if err := r.composer.CopyResources(ctx, r.bundleResources(), r.layout.ResourcesDir); err != nil {
		return err
	}

	startup := filepath.Join(r.layout.AssetsDir, linuxStartupScript)
	if err := resources.Render(ctx, resources.LinuxStartup, startup, r.data(nil)); err != nil {
		return err
	}

	return writeLauncher(ctx, r.layout.Executable, startup, r.c.Artifacts.JarFile)
}

// writeLauncher writes the startup script followed by the jar into one
// executable, atomically and verified against its checksum.
func writeLauncher(ctx context.Context, executable string, parts ...string) error {
	content, err := fsutil.Concat(parts...)
	if err != nil {
		return fmt.Errorf("build launcher: %w", err)
	}

	checksum, err := fsutil.Checksum(content)
	if err != nil {
		return err
	}

	// go-update renames the previous file aside, so one has to exist.
	if !fsutil.Exists(executable) {
		if err = os.WriteFile(executable, nil, fsutil.ExecutableMode); err != nil {
			return fmt.Errorf("create launcher: %w", err)
		}
	}

	logger.DebugKV(ctx, "Writing launcher", "path", executable, "size", len(content))

	err = goupdate.Apply(bytes.NewReader(content), goupdate.Options{
		TargetPath: executable,
		TargetMode: fsutil.ExecutableMode,
		Checksum:   checksum,
		Hash:       fsutil.ChecksumHash,
	})
	if err != nil {
		return fmt.Errorf("write launcher: %w", err)
	}

	// The umask applies to the mode Apply creates the file with.
	if err = os.Chmod(executable, fsutil.ExecutableMode); err != nil {
		return fmt.Errorf("chmod launcher: %w", err)
	}

	return nil
}

func (linuxHandler) installer(ctx context.Context, r *run) error {
	deb, err := buildDeb(ctx, r)
	if err != nil {
		return err
	}

	r.addArtifact(ctx, deb)
	r.record(ctx, packaging.Applied(installerStage))

	outcome := convertToRPM(ctx, r, deb)
	r.record(ctx, outcome)

	return nil
}

// buildDeb renders the desktop entry and control file and builds {name}_{version}.deb.
func buildDeb(ctx context.Context, r *run) (string, error) {
	logger.Info(ctx, "Generating DEB package")

	var (
		name        = r.c.Name
		installDir  = filepath.ToSlash(filepath.Join(linuxInstallRoot, name))
		desktopFile = filepath.Join(r.layout.AssetsDir, name+".desktop")
		controlFile = filepath.Join(r.layout.AssetsDir, "control")
		output      = filepath.Join(r.layout.OutputDir, r.c.ArtifactBaseName()+".deb")
		data        = r.data(nil)
	)

	if err := resources.Render(ctx, resources.LinuxDesktop, desktopFile, data); err != nil {
		return "", err
	}

	if err := resources.Render(ctx, resources.LinuxControl, controlFile, data); err != nil {
		return "", err
	}

	javaBinary := filepath.Join(r.layout.RuntimeDir, "bin", "java")
	javaBinaryRel := jreFolder + "/bin/java"

	mappings := []Mapping{
		{
			Kind:        MappingDir,
			Source:      r.layout.AppDir,
			Destination: installDir,
			Excludes:    []string{name, javaBinaryRel},
		},
		{
			Kind:        MappingFile,
			Source:      r.layout.Executable,
			Destination: installDir,
			Mode:        fsutil.ExecutableMode,
		},
		{
			Kind:        MappingFile,
			Source:      desktopFile,
			Destination: linuxDesktopDir,
		},
	}

	if r.c.BundleJre && fsutil.Exists(javaBinary) {
		mappings = append(mappings, Mapping{
			Kind:        MappingFile,
			Source:      javaBinary,
			Destination: installDir + "/" + jreFolder + "/bin",
			Mode:        fsutil.ExecutableMode,
		})
	}

	mappings = append(mappings, Mapping{
		Kind:        MappingLink,
		Destination: linuxBinDir + "/" + name,
		Target:      installDir + "/" + name,
		Mode:        os.ModeSymlink | 0o777,
	})

	err := r.deb.Build(ctx, &DebPackage{
		ControlFile: controlFile,
		Output:      output,
		Mappings:    mappings,
	})
	if err != nil {
		return "", err
	}

	return output, nil
}
