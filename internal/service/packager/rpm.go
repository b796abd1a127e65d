package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
)

const rpmStage = "rpm"

// convertToRPM turns the DEB into {name}_{version}.rpm with alien and
// rpmbuild. Every failure is returned as a failed outcome, never as an error.
func convertToRPM(ctx context.Context, r *run, deb string) packaging.Outcome {
	logger.Info(ctx, "Generating RPM package")

	if !fsutil.Exists(deb) {
		return packaging.Failed(rpmStage, fmt.Errorf("%w: %s", packaging.ErrResourceMissing, deb))
	}

	var (
		name    = r.c.Name
		version = r.c.Version
		assets  = r.layout.AssetsDir
	)

	_, err := r.runner.Run(ctx, common.Command{
		Name: "alien",
		Args: []string{"-g", "--to-rpm", deb},
		Dir:  assets,
	})
	if err != nil {
		return packaging.Failed(rpmStage, fmt.Errorf("convert deb: %w", err))
	}

	packageDir := filepath.Join(assets, strings.ToLower(name)+"-"+version)
	specFile := filepath.Join(packageDir, name+"-"+version+"-2.spec")

	_, err = r.runner.Run(ctx, common.Command{
		Name: "rpmbuild",
		Args: []string{"--buildroot", packageDir, "--nodeps", "-bb", specFile},
		Dir:  assets,
	})
	if err != nil {
		return packaging.Failed(rpmStage, fmt.Errorf("build rpm: %w", err))
	}

	built := filepath.Join(r.layout.OutputDir, name+"-"+version+"-2.x86_64.rpm")
	rpm := filepath.Join(r.layout.OutputDir, r.c.ArtifactBaseName()+".rpm")

	if err = os.Rename(built, rpm); err != nil {
		return packaging.Failed(rpmStage, fmt.Errorf("rename rpm: %w", err))
	}

	r.addArtifact(ctx, rpm)

	return packaging.Applied(rpmStage)
}
