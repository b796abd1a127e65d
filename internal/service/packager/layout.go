package packager

import (
	"context"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
)

const (
	appFolder    = "app"
	assetsFolder = "assets"
	libsFolder   = "libs"
	jreFolder    = "jre"
)

// Layout holds the filesystem locations of one bundle.
type Layout struct {
	// OutputDir receives final artifacts.
	OutputDir string
	// AppDir is {OutputDir}/app, the tree installers are built from.
	AppDir string
	// AssetsDir is {OutputDir}/assets, for intermediate files.
	AssetsDir string
	// BundleDir is the {name}.app folder on mac and AppDir elsewhere.
	BundleDir string
	// ResourcesDir receives the icon, the license and additional resources.
	ResourcesDir string
	// JavaDir holds the application jar when it is not part of the executable.
	JavaDir string
	// LibsDir holds the dependency jars.
	LibsDir string
	// RuntimeDir receives the embedded runtime image.
	RuntimeDir string
	// Executable is the launcher users start.
	Executable string
}

// dirs lists the folders created up front. RuntimeDir is left to the
// runtime stage, so bundles without a runtime do not carry an empty one.
func (l *Layout) dirs() []string {
	return []string{l.AppDir, l.AssetsDir, l.BundleDir, l.ResourcesDir, l.JavaDir, l.LibsDir, filepath.Dir(l.Executable)}
}

// create makes every layout folder; existing ones are left alone.
func (l *Layout) create() error {
	for _, dir := range l.dirs() {
		if dir == "" {
			continue
		}

		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
	}

	return nil
}

// baseLayout is shared by windows and linux, which use a flat app folder.
func baseLayout(outputDir string) *Layout {
	appDir := filepath.Join(outputDir, appFolder)

	return &Layout{
		OutputDir:    outputDir,
		AppDir:       appDir,
		AssetsDir:    filepath.Join(outputDir, assetsFolder),
		BundleDir:    appDir,
		ResourcesDir: appDir,
		LibsDir:      filepath.Join(appDir, libsFolder),
		RuntimeDir:   filepath.Join(appDir, jreFolder),
	}
}

// handler builds the platform specific parts of a run.
type handler interface {
	// layout returns the bundle locations for the context.
	layout(c *packaging.Context, outputDir string) *Layout
	// bundle fills the app folder once dependencies and the runtime are in place.
	bundle(ctx context.Context, r *run) error
	// installer produces the final installers. It is only called when
	// installers are requested and the host builds for itself.
	installer(ctx context.Context, r *run) error
}

// handlerFor returns the handler of a resolved platform.
func handlerFor(platform packaging.Platform) (handler, error) {
	switch platform {
	case packaging.Windows:
		return windowsHandler{}, nil
	case packaging.Linux:
		return linuxHandler{}, nil
	case packaging.Mac:
		return macHandler{}, nil
	default:
		return nil, unsupported(platform)
	}
}
