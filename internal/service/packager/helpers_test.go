package packager

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/common/commontest"
)

const (
	jarContent = "PK\x03\x04runnable-jar"
	libName    = "commons-lang3-3.14.0.jar"
)

var builtAt = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// collectorFunc adapts a function to libs.Collector.
type collectorFunc func(ctx context.Context, projectDir, libsDir string) error

func (f collectorFunc) Collect(ctx context.Context, projectDir, libsDir string) error {
	return f(ctx, projectDir, libsDir)
}

// fakeProcess implements ps.Process.
type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.executable }

// fixture is a project folder with a built jar and scripted tools.
type fixture struct {
	project string
	output  string
	jar     string
	runner  *commontest.FakeRunner
	ctx     context.Context
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, name, version string) *fixture {
	t.Helper()

	project := t.TempDir()
	output := filepath.Join(project, "target")
	jar := filepath.Join(output, name+"-"+version+"-runnable.jar")

	require.NoError(t, os.MkdirAll(output, 0o755))
	require.NoError(t, os.WriteFile(jar, []byte(jarContent), 0o644))

	core, logs := observer.New(zapcore.DebugLevel)

	return &fixture{
		project: project,
		output:  output,
		jar:     jar,
		runner:  commontest.NewFakeRunner(),
		ctx:     logger.ToContext(context.Background(), zap.New(core).Sugar()),
		logs:    logs,
	}
}

// packagingContext returns a minimal packaging context for the fixture.
func (f *fixture) packagingContext(name, version string, platform packaging.Platform) *packaging.Context {
	return &packaging.Context{
		Name:              name,
		DisplayName:       name,
		Version:           version,
		Description:       "Packaged by tests",
		MainClass:         "com.example.Main",
		Platform:          platform,
		CustomizedJre:     true,
		GenerateInstaller: true,
		Artifacts: packaging.Artifacts{
			JarFile: f.jar,
		},
	}
}

// build returns the Project of the fixture.
func (f *fixture) build() Project {
	return Project{Dir: f.project, OutputDir: f.output}
}

// packager returns a Packager for goos with every external effect faked.
func (f *fixture) packager(goos string, opts ...Option) *Packager {
	defaults := []Option{
		WithRunner(f.runner),
		WithHostOS(goos),
		WithCollector(collectorFunc(func(_ context.Context, _, libsDir string) error {
			return os.WriteFile(filepath.Join(libsDir, libName), []byte("lib"), 0o644)
		})),
		WithProcessLister(func() ([]ps.Process, error) { return nil, nil }),
	}

	p := New(append(defaults, opts...)...)
	p.detectHost = func() (*common.Host, error) {
		return &common.Host{Hostname: "build-01", Username: "ci"}, nil
	}
	p.now = func() time.Time { return builtAt }

	return p
}

// createsFile scripts tool to create the file at argument index i.
func createsFile(t *testing.T, i int) commontest.Handler {
	t.Helper()

	return func(cmd common.Command) (*common.Result, error) {
		require.Greater(t, len(cmd.Args), i)

		return &common.Result{}, os.WriteFile(cmd.Args[i], []byte(cmd.Tool()), 0o644)
	}
}

// stageStatus returns the recorded status of a stage.
func stageStatus(t *testing.T, release *packaging.Release, stage string) packaging.Status {
	t.Helper()

	for _, record := range release.Stages {
		if record.Stage == stage {
			return record.Status
		}
	}

	t.Fatalf("stage %s was not recorded", stage)

	return ""
}

func requireExecutable(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)

	if runtimeSupportsModes() {
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm(), path)
	}
}

func runtimeSupportsModes() bool {
	return runtime.GOOS != "windows"
}
