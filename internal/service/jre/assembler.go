package jre

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
)

// Stage names the runtime step in outcomes and manifests.
const Stage = "runtime"

const (
	binFolder   = "bin"
	legalFolder = "legal"
)

// Thresholds are the toolchain versions that change how a runtime is linked.
type Thresholds struct {
	// MinLink is the first release shipping jlink and jmods.
	MinLink int
	// PrintModuleDeps is the first release whose jdeps supports
	// --print-module-deps together with --ignore-missing-deps.
	PrintModuleDeps int
}

// DefaultThresholds match the JDK release history.
var DefaultThresholds = Thresholds{
	MinLink:         9,
	PrintModuleDeps: 13,
}

// Request describes the runtime to embed into one bundle.
type Request struct {
	// RuntimeDir receives the runtime image.
	RuntimeDir string
	// LibsDir holds the collected dependency jars.
	LibsDir string
	// JarFile is the application jar.
	JarFile string
	// JrePath is an existing runtime to copy instead of linking one.
	JrePath string
	// Customized asks for a trimmed image instead of every module.
	Customized bool
	// Modules overrides module detection when Customized is set.
	Modules []string
	// AdditionalModules are always appended.
	AdditionalModules []string
	// Target is the platform the bundle is built for.
	Target packaging.Platform
}

// Assembler embeds runtime images into bundles.
type Assembler struct {
	runner     common.Runner
	host       packaging.Platform
	javaHome   string
	toolchain  *Toolchain
	thresholds Thresholds
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithToolchain skips `java -version` detection.
func WithToolchain(t *Toolchain) Option {
	return func(a *Assembler) {
		a.toolchain = t
	}
}

// WithThresholds overrides DefaultThresholds.
func WithThresholds(t Thresholds) Option {
	return func(a *Assembler) {
		a.thresholds = t
	}
}

// NewAssembler creates an assembler linking with the JDK found in javaHome on host.
func NewAssembler(runner common.Runner, host packaging.Platform, javaHome string, opts ...Option) *Assembler {
	assembler := &Assembler{
		runner:     runner,
		host:       host,
		javaHome:   javaHome,
		thresholds: DefaultThresholds,
	}

	for _, opt := range opts {
		opt(assembler)
	}

	return assembler
}

// Toolchain returns the host JDK, detecting it on first use.
func (a *Assembler) Toolchain(ctx context.Context) (*Toolchain, error) {
	if a.toolchain != nil {
		return a.toolchain, nil
	}

	toolchain, err := DetectToolchain(ctx, a.runner, a.javaHome)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Detected java toolchain", "home", toolchain.Home, "major", toolchain.Major)

	a.toolchain = toolchain

	return toolchain, nil
}

// Assemble embeds a runtime into req.RuntimeDir. The outcome is Applied when
// a runtime was embedded and Skipped when linking was impossible for the
// target platform. Errors are always fatal.
func (a *Assembler) Assemble(ctx context.Context, req *Request) (packaging.Outcome, error) {
	outcome, err := a.embed(ctx, req)
	if err != nil {
		return packaging.Failed(Stage, err), err
	}

	if err = a.removeLegal(ctx, req.RuntimeDir); err != nil {
		return packaging.Failed(Stage, err), err
	}

	return outcome, nil
}

func (a *Assembler) embed(ctx context.Context, req *Request) (packaging.Outcome, error) {
	if req.JrePath != "" {
		if err := copyRuntime(ctx, req.JrePath, req.RuntimeDir); err != nil {
			return packaging.Outcome{}, err
		}

		return packaging.Applied(Stage), nil
	}

	toolchain, err := a.Toolchain(ctx)
	if err != nil {
		return packaging.Outcome{}, err
	}

	if toolchain.Major < a.thresholds.MinLink {
		return packaging.Outcome{}, fmt.Errorf(
			"%w: java %d cannot link runtime images, java %d or later is required; set jrePath to embed an existing runtime",
			packaging.ErrUnsupportedToolchain, toolchain.Major, a.thresholds.MinLink)
	}

	if req.Target != a.host {
		return packaging.Skipped(Stage, fmt.Sprintf(
			"a %s runtime cannot be linked on a %s host, set jrePath to embed one", req.Target, a.host)), nil
	}

	if err = a.link(ctx, req, toolchain); err != nil {
		return packaging.Outcome{}, err
	}

	return packaging.Applied(Stage), nil
}

// link builds a runtime image with jlink.
func (a *Assembler) link(ctx context.Context, req *Request, toolchain *Toolchain) error {
	modules, err := a.ResolveModules(ctx, req, toolchain)
	if err != nil {
		return err
	}

	if err = os.RemoveAll(req.RuntimeDir); err != nil {
		return fmt.Errorf("remove previous runtime: %w", err)
	}

	if err = fsutil.EnsureDir(filepath.Dir(req.RuntimeDir)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Creating runtime image", "output", req.RuntimeDir)

	_, err = a.runner.Run(ctx, common.Command{
		Name: toolchain.Tool("jlink"),
		Args: []string{
			"--module-path", toolchain.ModulesDir(),
			"--add-modules", modules.String(),
			"--output", req.RuntimeDir,
			"--no-header-files",
			"--no-man-pages",
			"--strip-debug",
			"--compress=2",
		},
	})
	if err != nil {
		return fmt.Errorf("link runtime image: %w", err)
	}

	return fsutil.MakeExecutable(filepath.Join(req.RuntimeDir, binFolder))
}

// copyRuntime replaces runtimeDir with a copy of an existing runtime.
func copyRuntime(ctx context.Context, jrePath, runtimeDir string) error {
	if !fsutil.Exists(jrePath) {
		return fmt.Errorf("%w: %w: %s does not exist",
			packaging.ErrConfiguration, packaging.ErrInvalidRuntimePath, jrePath)
	}

	if !fsutil.IsDir(jrePath) {
		return fmt.Errorf("%w: %w: %s is not a folder",
			packaging.ErrConfiguration, packaging.ErrInvalidRuntimePath, jrePath)
	}

	logger.InfoKV(ctx, "Embedding existing runtime", "source", jrePath, "output", runtimeDir)

	if err := fsutil.ReplaceDir(jrePath, runtimeDir); err != nil {
		return fmt.Errorf("copy runtime: %w", err)
	}

	return fsutil.MakeExecutable(filepath.Join(runtimeDir, binFolder))
}

// removeLegal drops the legal notices folder, which breaks code signing on mac.
func (a *Assembler) removeLegal(ctx context.Context, runtimeDir string) error {
	if a.host != packaging.Mac || !fsutil.IsDir(runtimeDir) {
		return nil
	}

	legal := filepath.Join(runtimeDir, legalFolder)
	if !fsutil.Exists(legal) {
		return nil
	}

	logger.DebugKV(ctx, "Removing runtime legal folder", "path", legal)

	if err := os.RemoveAll(legal); err != nil {
		return fmt.Errorf("remove runtime legal folder: %w", err)
	}

	return nil
}
