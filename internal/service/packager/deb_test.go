package packager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/common/commontest"
)

// TestDpkgDebBuilder_Build stages every mapping kind and packs the root with dpkg-deb.
func TestDpkgDebBuilder_Build(t *testing.T) {
	t.Parallel()

	if !runtimeSupportsModes() {
		t.Skip("requires POSIX symlinks and file modes")
	}

	src := t.TempDir()
	assets := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, "app", "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app", "tool"), []byte("tool"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app", "skip.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app", "docs", "guide.md"), []byte("guide"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "app", "cache", "nested"), 0o755))

	control := filepath.Join(assets, "control")
	require.NoError(t, os.WriteFile(control, []byte("Package: tool\n"), 0o644))

	output := filepath.Join(t.TempDir(), "tool_1.0.deb")
	runner := commontest.NewFakeRunner()

	err := NewDpkgDebBuilder(runner).Build(context.Background(), &DebPackage{
		ControlFile: control,
		Output:      output,
		Mappings: []Mapping{
			{Kind: MappingDir, Source: filepath.Join(src, "app"), Destination: "/opt/tool", Excludes: []string{"skip.txt", "cache"}},
			{Kind: MappingFile, Source: filepath.Join(src, "app", "tool"), Destination: "/opt/tool/bin", Mode: 0o755},
			{Kind: MappingLink, Destination: "/usr/local/bin/tool", Target: "/opt/tool/bin/tool"},
		},
	})
	require.NoError(t, err)

	root := filepath.Join(assets, "deb-root")
	require.FileExists(t, filepath.Join(root, "DEBIAN", "control"))
	require.FileExists(t, filepath.Join(root, "opt", "tool", "docs", "guide.md"))
	require.NoFileExists(t, filepath.Join(root, "opt", "tool", "skip.txt"))
	require.NoDirExists(t, filepath.Join(root, "opt", "tool", "cache"))

	info, err := os.Stat(filepath.Join(root, "opt", "tool", "bin", "tool"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	link, err := os.Readlink(filepath.Join(root, "usr", "local", "bin", "tool"))
	require.NoError(t, err)
	require.Equal(t, "/opt/tool/bin/tool", link)

	calls := runner.CallsTo("dpkg-deb")
	require.Len(t, calls, 1)
	require.Equal(t, []string{"--build", "--root-owner-group", root, output}, calls[0].Args)
}

// TestDpkgDebBuilder_Failure returns the dpkg-deb error.
func TestDpkgDebBuilder_Failure(t *testing.T) {
	t.Parallel()

	control := filepath.Join(t.TempDir(), "control")
	require.NoError(t, os.WriteFile(control, []byte("Package: tool\n"), 0o644))

	runner := commontest.NewFakeRunner().Fail("dpkg-deb", 2, "dpkg-deb: error: parsing file 'DEBIAN/control'")

	err := NewDpkgDebBuilder(runner).Build(context.Background(), &DebPackage{
		ControlFile: control,
		Output:      filepath.Join(t.TempDir(), "tool.deb"),
	})
	require.ErrorIs(t, err, packaging.ErrExternalTool)
	require.Contains(t, err.Error(), "parsing file")
}
