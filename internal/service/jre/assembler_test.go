package jre

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/common/commontest"
)

func newRequest(t *testing.T, target packaging.Platform) *Request {
	t.Helper()

	root := t.TempDir()
	libs := filepath.Join(root, "libs")
	require.NoError(t, os.MkdirAll(libs, 0o755))

	for _, name := range []string{"b.jar", "a.jar", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(libs, name), nil, 0o600))
	}

	return &Request{
		RuntimeDir:        filepath.Join(root, "app", "jre"),
		LibsDir:           libs,
		JarFile:           filepath.Join(root, "app.jar"),
		Customized:        true,
		AdditionalModules: []string{" jdk.crypto.ec "},
		Target:            target,
	}
}

// linkingRunner fakes jlink by creating the output folder with a bin and a legal folder.
func linkingRunner(t *testing.T) *commontest.FakeRunner {
	t.Helper()

	return commontest.NewFakeRunner().On("jlink", func(cmd common.Command) (*common.Result, error) {
		output := ""

		for i, arg := range cmd.Args {
			if arg == "--output" {
				output = cmd.Args[i+1]
			}
		}

		require.NoError(t, os.MkdirAll(filepath.Join(output, "bin"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(output, "legal"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(output, "bin", "java"), []byte("#!"), 0o600))

		return &common.Result{}, nil
	})
}

// TestResolveModules_ExplicitList uses the configured modules verbatim without running jdeps.
func TestResolveModules_ExplicitList(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner()
	req := newRequest(t, packaging.Linux)
	req.Modules = []string{"java.base ", " java.desktop"}

	assembler := NewAssembler(runner, packaging.Linux, "/jdk")

	for _, major := range []int{9, 13, 21} {
		modules, err := assembler.ResolveModules(context.Background(), req, &Toolchain{Home: "/jdk", Major: major})
		require.NoError(t, err)
		require.Equal(t, ModuleSet{"java.base", "java.desktop", "jdk.crypto.ec"}, modules)
	}

	require.Empty(t, runner.Calls())
}

// TestResolveModules_BlankList detects modules with jdeps when the configured list holds only blanks.
func TestResolveModules_BlankList(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().Output("jdeps", "java.base,java.sql\n")
	req := newRequest(t, packaging.Linux)
	req.Modules = []string{"", "  "}

	modules, err := NewAssembler(runner, packaging.Linux, "/jdk").
		ResolveModules(context.Background(), req, &Toolchain{Home: "/jdk", Major: 17})
	require.NoError(t, err)
	require.Equal(t, ModuleSet{"java.base", "java.sql", "jdk.crypto.ec"}, modules)
	require.Len(t, runner.CallsTo("jdeps"), 1)
}

// TestResolveModules_PrintModuleDeps parses the comma-separated jdeps output of modern toolchains.
func TestResolveModules_PrintModuleDeps(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().Output("jdeps", "java.base,java.logging,java.sql\n")
	req := newRequest(t, packaging.Linux)
	toolchain := &Toolchain{Home: "/jdk", Major: 17}

	modules, err := NewAssembler(runner, packaging.Linux, "/jdk").ResolveModules(context.Background(), req, toolchain)
	require.NoError(t, err)
	require.Equal(t, ModuleSet{"java.base", "java.logging", "java.sql", "jdk.crypto.ec"}, modules)

	calls := runner.CallsTo("jdeps")
	require.Len(t, calls, 1)

	want := []string{
		"-q", "--ignore-missing-deps", "--print-module-deps", "--multi-release", "17",
		filepath.Join(req.LibsDir, "a.jar"), filepath.Join(req.LibsDir, "b.jar"),
		req.JarFile,
	}
	if diff := cmp.Diff(want, calls[0].Args); diff != "" {
		t.Errorf("jdeps args mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, toolchain.Tool("jdeps"), calls[0].Name)
}

// TestResolveModules_ListDeps parses line-based output and drops internal API notes.
func TestResolveModules_ListDeps(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().
		Output("jdeps", "   java.base\n   JDK removed internal API/sun.misc.BASE64Encoder\n   java.desktop\n\n")
	req := newRequest(t, packaging.Linux)

	modules, err := NewAssembler(runner, packaging.Linux, "/jdk").
		ResolveModules(context.Background(), req, &Toolchain{Home: "/jdk", Major: 11})
	require.NoError(t, err)
	require.Equal(t, ModuleSet{"java.base", "java.desktop", "jdk.crypto.ec"}, modules)

	calls := runner.CallsTo("jdeps")
	require.Len(t, calls, 1)
	require.Equal(t, []string{"-q", "--list-deps", "--multi-release", "11"}, calls[0].Args[:4])
}

// TestResolveModules_AllModules falls back to the whole module path when not customized.
func TestResolveModules_AllModules(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner()
	req := newRequest(t, packaging.Linux)
	req.Customized = false
	req.Modules = []string{"java.base"}

	modules, err := NewAssembler(runner, packaging.Linux, "/jdk").
		ResolveModules(context.Background(), req, &Toolchain{Home: "/jdk", Major: 17})
	require.NoError(t, err)
	require.Equal(t, ModuleSet{AllModulePath, "jdk.crypto.ec"}, modules)
	require.Equal(t, "ALL-MODULE-PATH,jdk.crypto.ec", modules.String())
	require.Empty(t, runner.Calls())
}

// TestAssemble_OldToolchain refuses to link with a JDK older than 9.
func TestAssemble_OldToolchain(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner()
	assembler := NewAssembler(runner, packaging.Linux, "/jdk", WithToolchain(&Toolchain{Home: "/jdk", Major: 8}))

	outcome, err := assembler.Assemble(context.Background(), newRequest(t, packaging.Linux))
	require.ErrorIs(t, err, packaging.ErrUnsupportedToolchain)
	require.Contains(t, err.Error(), "jrePath")
	require.Equal(t, packaging.StatusFailed, outcome.Status)
	require.Empty(t, runner.CallsTo("jlink"))
}

// TestAssemble_CrossPlatform degrades to a skipped stage.
func TestAssemble_CrossPlatform(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner()
	assembler := NewAssembler(runner, packaging.Mac, "/jdk", WithToolchain(&Toolchain{Home: "/jdk", Major: 17}))

	outcome, err := assembler.Assemble(context.Background(), newRequest(t, packaging.Linux))
	require.NoError(t, err)
	require.Equal(t, packaging.StatusSkipped, outcome.Status)
	require.Contains(t, outcome.Reason, "linux")
	require.Empty(t, runner.Calls())
}

// TestAssemble_Link builds a trimmed image and marks its binaries executable.
func TestAssemble_Link(t *testing.T) {
	t.Parallel()

	runner := linkingRunner(t).Output("jdeps", "java.base")
	req := newRequest(t, packaging.Linux)
	require.NoError(t, os.MkdirAll(filepath.Join(req.RuntimeDir, "stale"), 0o755))

	toolchain := &Toolchain{Home: "/jdk", Major: 17}
	assembler := NewAssembler(runner, packaging.Linux, "/jdk", WithToolchain(toolchain))

	outcome, err := assembler.Assemble(context.Background(), req)
	require.NoError(t, err)
	require.True(t, outcome.IsApplied())

	calls := runner.CallsTo("jlink")
	require.Len(t, calls, 1)

	want := []string{
		"--module-path", filepath.Join("/jdk", "jmods"),
		"--add-modules", "java.base,jdk.crypto.ec",
		"--output", req.RuntimeDir,
		"--no-header-files", "--no-man-pages", "--strip-debug", "--compress=2",
	}
	if diff := cmp.Diff(want, calls[0].Args); diff != "" {
		t.Errorf("jlink args mismatch (-want +got):\n%s", diff)
	}

	require.NoDirExists(t, filepath.Join(req.RuntimeDir, "stale"))
	require.DirExists(t, filepath.Join(req.RuntimeDir, "legal"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(req.RuntimeDir, "bin", "java"))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

// TestAssemble_LinkFailure is fatal.
func TestAssemble_LinkFailure(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().Fail("jlink", 1, "Error: module not found: java.nope")
	req := newRequest(t, packaging.Linux)
	req.Modules = []string{"java.nope"}

	assembler := NewAssembler(runner, packaging.Linux, "/jdk", WithToolchain(&Toolchain{Home: "/jdk", Major: 17}))

	_, err := assembler.Assemble(context.Background(), req)
	require.ErrorIs(t, err, packaging.ErrExternalTool)
	require.Contains(t, err.Error(), "java.nope")
}

// TestAssemble_ExistingRuntime copies a runtime verbatim and strips legal notices on a mac host.
func TestAssemble_ExistingRuntime(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "bin"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "legal", "java.base"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "bin", "java"), []byte("java"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(source, "lib", "modules"), []byte("modules"), 0o600))

	runner := commontest.NewFakeRunner()
	req := newRequest(t, packaging.Mac)
	req.JrePath = source
	require.NoError(t, os.MkdirAll(filepath.Join(req.RuntimeDir, "old"), 0o755))

	// No toolchain is needed to copy a runtime.
	outcome, err := NewAssembler(runner, packaging.Mac, "").Assemble(context.Background(), req)
	require.NoError(t, err)
	require.True(t, outcome.IsApplied())
	require.Empty(t, runner.Calls())

	content, err := os.ReadFile(filepath.Join(req.RuntimeDir, "lib", "modules"))
	require.NoError(t, err)
	require.Equal(t, "modules", string(content))
	require.NoDirExists(t, filepath.Join(req.RuntimeDir, "old"))
	require.NoDirExists(t, filepath.Join(req.RuntimeDir, "legal"))
	require.DirExists(t, filepath.Join(source, "legal"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(req.RuntimeDir, "bin", "java"))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}
}

// TestAssemble_InvalidRuntimePath rejects a missing path and a plain file.
func TestAssemble_InvalidRuntimePath(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "jre.zip")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	for _, path := range []string{filepath.Join(t.TempDir(), "missing"), file} {
		req := newRequest(t, packaging.Linux)
		req.JrePath = path

		_, err := NewAssembler(commontest.NewFakeRunner(), packaging.Linux, "").Assemble(context.Background(), req)
		require.ErrorIs(t, err, packaging.ErrInvalidRuntimePath)
		require.ErrorIs(t, err, packaging.ErrConfiguration)
	}
}

// TestAssemble_LegalRemovedOnSkip cleans the runtime folder on a mac host even when nothing was linked.
func TestAssemble_LegalRemovedOnSkip(t *testing.T) {
	t.Parallel()

	req := newRequest(t, packaging.Windows)
	require.NoError(t, os.MkdirAll(filepath.Join(req.RuntimeDir, "legal"), 0o755))

	assembler := NewAssembler(commontest.NewFakeRunner(), packaging.Mac, "/jdk",
		WithToolchain(&Toolchain{Home: "/jdk", Major: 21}))

	outcome, err := assembler.Assemble(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, packaging.StatusSkipped, outcome.Status)
	require.NoDirExists(t, filepath.Join(req.RuntimeDir, "legal"))
}

// TestAssemble_CustomThresholds lets callers move the linking boundary.
func TestAssemble_CustomThresholds(t *testing.T) {
	t.Parallel()

	assembler := NewAssembler(commontest.NewFakeRunner(), packaging.Linux, "/jdk",
		WithToolchain(&Toolchain{Home: "/jdk", Major: 11}),
		WithThresholds(Thresholds{MinLink: 17, PrintModuleDeps: 17}))

	_, err := assembler.Assemble(context.Background(), newRequest(t, packaging.Linux))
	require.ErrorIs(t, err, packaging.ErrUnsupportedToolchain)
}
