package packager

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/repository/manifest"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/jre"
	"github.com/oshokin/java-packager/internal/service/libs"
	"github.com/oshokin/java-packager/internal/service/resources"
)

const (
	layoutStage    = "layout"
	bundleStage    = "bundle"
	installerStage = "installer"
	manifestStage  = "manifest"
)

// Project holds the inputs of a run that are not part of the packaging context.
type Project struct {
	// Dir is the project folder: pom.xml, assets and the dependency tool run there.
	Dir string
	// OutputDir receives the app and assets folders and final artifacts.
	OutputDir string
	// LicenseURLs are the licenses declared by the project, first one wins.
	LicenseURLs []string
}

// Report is the result of a successful run.
type Report struct {
	// Release is what was written to the manifest.
	Release *packaging.Release
	// Layout is where the bundle was built.
	Layout *Layout
	// ManifestPath is the release manifest location.
	ManifestPath string
}

// Packager runs the packaging pipeline.
type Packager struct {
	runner     common.Runner
	hostOS     string
	javaHome   string
	collector  libs.Collector
	toolchain  *jre.Toolchain
	deb        DebBuilder
	processes  ProcessLister
	detectHost func() (*common.Host, error)
	now        func() time.Time
}

// Option configures a Packager.
type Option func(*Packager)

// WithRunner replaces the process runner used for every external tool.
func WithRunner(runner common.Runner) Option {
	return func(p *Packager) {
		p.runner = runner
	}
}

// WithHostOS overrides runtime.GOOS.
func WithHostOS(goos string) Option {
	return func(p *Packager) {
		p.hostOS = goos
	}
}

// WithJavaHome sets the JDK used for jdeps and jlink.
func WithJavaHome(home string) Option {
	return func(p *Packager) {
		p.javaHome = home
	}
}

// WithCollector replaces the maven dependency collector.
func WithCollector(collector libs.Collector) Option {
	return func(p *Packager) {
		p.collector = collector
	}
}

// WithToolchain skips JDK detection.
func WithToolchain(toolchain *jre.Toolchain) Option {
	return func(p *Packager) {
		p.toolchain = toolchain
	}
}

// WithDebBuilder replaces the dpkg-deb based builder.
func WithDebBuilder(builder DebBuilder) Option {
	return func(p *Packager) {
		p.deb = builder
	}
}

// WithProcessLister replaces the host process listing.
func WithProcessLister(lister ProcessLister) Option {
	return func(p *Packager) {
		p.processes = lister
	}
}

// New creates a Packager running real tools on the current host.
func New(opts ...Option) *Packager {
	p := &Packager{
		runner:     common.NewExecRunner(),
		hostOS:     runtime.GOOS,
		processes:  listProcesses,
		detectHost: common.DetectHost,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.collector == nil {
		p.collector = libs.NewMavenCollector(p.runner, "")
	}

	if p.deb == nil {
		p.deb = NewDpkgDebBuilder(p.runner)
	}

	return p
}

// run is the state of one pipeline execution.
type run struct {
	*Packager

	c         *packaging.Context
	project   Project
	host      packaging.Platform
	layout    *Layout
	composer  *resources.Composer
	release   *packaging.Release
	artifacts []string
}

// Build packages c. Fatal errors abort immediately; degradable stages are
// recorded in the report and logged as warnings.
func (p *Packager) Build(ctx context.Context, c *packaging.Context, project Project) (*Report, error) {
	target, host, err := packaging.ResolvePlatform(c.Platform, p.hostOS)
	if err != nil {
		return nil, err
	}

	c.Platform = target
	ctx = logger.WithKV(ctx, "app", c.Name, "platform", target.String())

	h, err := handlerFor(target)
	if err != nil {
		return nil, err
	}

	r := &run{
		Packager: p,
		c:        c,
		project:  project,
		host:     host,
		layout:   h.layout(c, project.OutputDir),
		release:  packaging.NewRelease(c),
	}
	r.composer = resources.NewComposer(project.Dir, r.layout.AssetsDir)

	logger.InfoKV(ctx, "Packaging application", "version", c.Version, "host", host.String())

	p.warnIfRunning(ctx, c.Name)

	steps := []func(context.Context) error{
		r.buildLayout,
		r.collectLibs,
		r.embedRuntime,
		func(ctx context.Context) error { return r.composeBundle(ctx, h) },
		func(ctx context.Context) error { return r.generateInstallers(ctx, h) },
		r.writeManifest,
	}

	for _, step := range steps {
		if err = step(ctx); err != nil {
			return nil, err
		}
	}

	return &Report{
		Release:      r.release,
		Layout:       r.layout,
		ManifestPath: r.manifestPath(),
	}, nil
}

func (r *run) buildLayout(ctx context.Context) error {
	if err := r.layout.create(); err != nil {
		return fmt.Errorf("create bundle layout: %w", err)
	}

	r.c.Artifacts.Executable = r.layout.Executable
	r.c.Artifacts.LicenseFile = r.composer.ResolveLicense(ctx, r.c.Artifacts.LicenseFile, r.project.LicenseURLs)

	r.record(ctx, packaging.Applied(layoutStage))

	return nil
}

func (r *run) collectLibs(ctx context.Context) error {
	if err := r.collector.Collect(ctx, r.project.Dir, r.layout.LibsDir); err != nil {
		return err
	}

	r.record(ctx, packaging.Applied(libs.Stage))

	return nil
}

// embedRuntime runs the runtime stage and clears bundleJre when it degrades.
func (r *run) embedRuntime(ctx context.Context) error {
	if !r.c.BundleJre {
		r.record(ctx, packaging.Skipped(jre.Stage, "bundleJre is disabled"))

		return nil
	}

	var opts []jre.Option
	if r.toolchain != nil {
		opts = append(opts, jre.WithToolchain(r.toolchain))
	}

	assembler := jre.NewAssembler(r.runner, r.host, r.javaHome, opts...)

	outcome, err := assembler.Assemble(ctx, &jre.Request{
		RuntimeDir:        r.layout.RuntimeDir,
		LibsDir:           r.layout.LibsDir,
		JarFile:           r.c.Artifacts.JarFile,
		JrePath:           r.c.JrePath,
		Customized:        r.c.CustomizedJre,
		Modules:           r.c.Modules,
		AdditionalModules: r.c.AdditionalModules,
		Target:            r.c.Platform,
	})
	if err != nil {
		return err
	}

	if outcome.Status == packaging.StatusSkipped {
		r.c.BundleJre = false
		r.release.Record(outcome)

		logger.WarnKV(ctx, "Runtime not embedded, the bundle relies on an installed java", "reason", outcome.Reason)

		return nil
	}

	r.record(ctx, outcome)

	return nil
}

func (r *run) composeBundle(ctx context.Context, h handler) error {
	icon, err := r.composer.ResolveIcon(ctx, r.c.Platform, r.c.Name, r.c.Artifacts.IconFile)
	if err != nil {
		return err
	}

	r.c.Artifacts.IconFile = icon

	if err = h.bundle(ctx, r); err != nil {
		return err
	}

	r.record(ctx, packaging.Applied(bundleStage))

	return nil
}

func (r *run) generateInstallers(ctx context.Context, h handler) error {
	switch {
	case !r.c.GenerateInstaller:
		r.record(ctx, packaging.Skipped(installerStage, "generateInstaller is disabled"))
	case r.host != r.c.Platform:
		r.record(ctx, packaging.Skipped(installerStage,
			fmt.Sprintf("%s installers can only be built on %s", r.c.Platform, r.c.Platform)))
	default:
		return h.installer(ctx, r)
	}

	return nil
}

// writeManifest records checksums of the final artifacts next to them.
func (r *run) writeManifest(ctx context.Context) error {
	if host, err := r.detectHost(); err != nil {
		logger.WarnKV(ctx, "Unable to detect the builder", "error", err)
	} else {
		r.release.BuiltBy = packaging.Builder{Hostname: host.Hostname, Username: host.Username}
	}

	r.release.BuiltAt = r.now().UTC()

	sort.Strings(r.artifacts)

	for _, artifact := range r.artifacts {
		checksum, err := fsutil.FileChecksum(artifact)
		if err != nil {
			return fmt.Errorf("checksum artifact: %w", err)
		}

		r.release.Artifacts[filepath.Base(artifact)] = checksum
	}

	repo := manifest.NewFileRepository(r.manifestPath())

	previous, err := repo.Load(ctx)
	switch {
	case err == nil:
		logger.InfoKV(ctx, "Replacing previous release manifest", "built_at", previous.BuiltAt)
	case !errors.Is(err, manifest.ErrNotFound):
		logger.WarnKV(ctx, "Ignoring unreadable release manifest", "error", err)
	}

	r.release.Record(packaging.Applied(manifestStage))

	if err = repo.Save(ctx, r.release); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Release manifest written", "path", repo.Path(), "artifacts", len(r.artifacts))

	return nil
}

func (r *run) manifestPath() string {
	return filepath.Join(r.layout.OutputDir, manifest.Filename(r.c))
}

// record stores the outcome and logs it.
func (r *run) record(ctx context.Context, outcome packaging.Outcome) {
	r.release.Record(outcome)

	switch outcome.Status {
	case packaging.StatusApplied:
		logger.DebugKV(ctx, "Stage applied", "stage", outcome.Stage)
	case packaging.StatusSkipped:
		logger.InfoKV(ctx, "Stage skipped", "stage", outcome.Stage, "reason", outcome.Reason)
	case packaging.StatusFailed:
		logger.WarnKV(ctx, "Stage failed, continuing without it", "stage", outcome.Stage, "error", outcome.Err)
	}
}

// addArtifact registers a final artifact for the release manifest.
func (r *run) addArtifact(ctx context.Context, path string) {
	logger.InfoKV(ctx, "Artifact created", "path", path)

	r.artifacts = append(r.artifacts, path)
}

// data returns the template data of the run plus extra keys.
func (r *run) data(extra map[string]any) map[string]any {
	data := r.c.TemplateData()
	maps.Copy(data, extra)

	return data
}

// bundleResources returns the additional resources plus a local license file.
func (r *run) bundleResources() []string {
	list := append([]string(nil), r.c.AdditionalResources...)

	if license := r.c.Artifacts.LicenseFile; license != "" && fsutil.Exists(license) {
		list = append(list, license)
	}

	return list
}

func unsupported(platform packaging.Platform) error {
	return fmt.Errorf("%w: %q", packaging.ErrUnsupportedPlatform, platform)
}
