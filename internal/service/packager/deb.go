package packager

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
)

// MappingKind tells how a Mapping is installed.
type MappingKind string

const (
	// MappingDir installs the contents of a folder under Destination.
	MappingDir MappingKind = "directory"
	// MappingFile installs one file into the Destination folder.
	MappingFile MappingKind = "file"
	// MappingLink creates a symbolic link named Destination pointing to Target.
	MappingLink MappingKind = "link"
)

// Mapping places local files at an install location inside a package.
type Mapping struct {
	Kind MappingKind
	// Source is a local folder or file; unused for links.
	Source string
	// Destination is an absolute install path.
	Destination string
	// Target is the link target of MappingLink.
	Target string
	// Mode overrides file permissions when non-zero.
	Mode os.FileMode
	// Excludes are paths relative to a MappingDir source that are not installed.
	Excludes []string
}

// DebPackage describes a DEB file to build.
type DebPackage struct {
	// ControlFile is the rendered DEBIAN/control file.
	ControlFile string
	// Output is the .deb file to create.
	Output string
	// Mappings are applied in order.
	Mappings []Mapping
}

// DebBuilder builds DEB packages.
type DebBuilder interface {
	Build(ctx context.Context, pkg *DebPackage) error
}

// DpkgDebBuilder stages the mappings into a root tree next to the control
// file and packs it with dpkg-deb.
type DpkgDebBuilder struct {
	runner common.Runner
}

// NewDpkgDebBuilder creates a builder running dpkg-deb through runner.
func NewDpkgDebBuilder(runner common.Runner) *DpkgDebBuilder {
	return &DpkgDebBuilder{runner: runner}
}

// Build implements DebBuilder.
func (b *DpkgDebBuilder) Build(ctx context.Context, pkg *DebPackage) error {
	root := filepath.Join(filepath.Dir(pkg.ControlFile), "deb-root")

	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("clean package root: %w", err)
	}

	if err := fsutil.CopyFile(pkg.ControlFile, filepath.Join(root, "DEBIAN", "control")); err != nil {
		return err
	}

	for _, mapping := range pkg.Mappings {
		if err := stage(root, mapping); err != nil {
			return fmt.Errorf("stage %s mapping %s: %w", mapping.Kind, mapping.Destination, err)
		}
	}

	logger.DebugKV(ctx, "Package root staged", "root", root)

	_, err := b.runner.Run(ctx, common.Command{
		Name: "dpkg-deb",
		Args: []string{"--build", "--root-owner-group", root, pkg.Output},
	})
	if err != nil {
		return fmt.Errorf("build deb package: %w", err)
	}

	return nil
}

// stage applies one mapping below root.
func stage(root string, mapping Mapping) error {
	switch mapping.Kind {
	case MappingDir:
		return stageDir(filepath.Join(root, mapping.Destination), mapping)
	case MappingFile:
		dst := filepath.Join(root, mapping.Destination, filepath.Base(mapping.Source))
		if err := fsutil.CopyFile(mapping.Source, dst); err != nil {
			return err
		}

		return chmod(dst, mapping.Mode)
	case MappingLink:
		return fsutil.Symlink(mapping.Target, filepath.Join(root, mapping.Destination))
	default:
		return fmt.Errorf("unknown mapping kind %q", mapping.Kind)
	}
}

// stageDir copies a folder tree, leaving out excluded paths.
func stageDir(dst string, mapping Mapping) error {
	return filepath.WalkDir(mapping.Source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(mapping.Source, path)
		if err != nil {
			return err
		}

		if slices.Contains(mapping.Excludes, filepath.ToSlash(rel)) {
			if entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir():
			return fsutil.EnsureDir(target)
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}

			return fsutil.Symlink(link, target)
		default:
			if err = fsutil.CopyFile(path, target); err != nil {
				return err
			}

			return chmod(target, mapping.Mode)
		}
	})
}

func chmod(path string, mode os.FileMode) error {
	if mode == 0 {
		return nil
	}

	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}
