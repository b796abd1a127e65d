package libs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/common/commontest"
)

// TestMavenCollector_Collect runs maven in the project folder with the libs folder as output.
func TestMavenCollector_Collect(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	libsDir := filepath.Join(t.TempDir(), "app", "libs")

	runner := commontest.NewFakeRunner().On("mvn", func(cmd common.Command) (*common.Result, error) {
		return &common.Result{}, os.WriteFile(filepath.Join(libsDir, "guava-33.0.jar"), nil, 0o600)
	})

	err := NewMavenCollector(runner, "").Collect(context.Background(), project, libsDir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(libsDir, "guava-33.0.jar"))

	calls := runner.CallsTo("mvn")
	require.Len(t, calls, 1)
	require.Equal(t, project, calls[0].Dir)

	want := []string{
		"-q",
		"dependency:copy-dependencies",
		"-DoutputDirectory=" + libsDir,
		"-DincludeScope=runtime",
	}
	if diff := cmp.Diff(want, calls[0].Args); diff != "" {
		t.Errorf("mvn args mismatch (-want +got):\n%s", diff)
	}
}

// TestMavenCollector_Failure is fatal and keeps the tool output.
func TestMavenCollector_Failure(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().Fail("mvn", 1, "[ERROR] no POM in this directory")

	err := NewMavenCollector(runner, "/usr/bin/mvn").Collect(context.Background(), t.TempDir(), t.TempDir())
	require.ErrorIs(t, err, packaging.ErrExternalTool)
	require.Contains(t, err.Error(), "no POM")
	require.Equal(t, "/usr/bin/mvn", runner.Calls()[0].Name)
}
