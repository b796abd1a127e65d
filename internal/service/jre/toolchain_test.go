package jre

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/common"
	"github.com/oshokin/java-packager/internal/service/common/commontest"
)

// TestParseJavaVersion covers legacy and modern version strings.
func TestParseJavaVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output string
		major  int
	}{
		{output: `java version "1.8.0_292"`, major: 8},
		{output: `openjdk version "11.0.21" 2023-10-17`, major: 11},
		{output: `openjdk version "17.0.2" 2022-01-18`, major: 17},
		{output: `openjdk version "21" 2023-09-19 LTS`, major: 21},
		{output: `openjdk version "22-ea" 2024-03-19`, major: 22},
	}

	for _, tt := range tests {
		major, err := ParseJavaVersion(tt.output)
		require.NoError(t, err, tt.output)
		require.Equal(t, tt.major, major, tt.output)
	}

	_, err := ParseJavaVersion("command not found")
	require.Error(t, err)
}

// TestDetectToolchain runs java from the configured home.
func TestDetectToolchain(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().
		Output("java", "openjdk version \"17.0.2\" 2022-01-18\nOpenJDK Runtime Environment\n")

	home := filepath.Join("opt", "jdk")

	toolchain, err := DetectToolchain(context.Background(), runner, home)
	require.NoError(t, err)
	require.Equal(t, &Toolchain{Home: home, Major: 17}, toolchain)

	calls := runner.CallsTo("java")
	require.Len(t, calls, 1)
	require.Equal(t, filepath.Join(home, "bin", "java"), calls[0].Name)
	require.Equal(t, []string{"-version"}, calls[0].Args)

	_, err = DetectToolchain(context.Background(), runner, "")
	require.ErrorIs(t, err, packaging.ErrConfiguration)
	require.ErrorContains(t, err, "javaHome")
	require.ErrorContains(t, err, "jrePath")
}

// TestDetectToolchain_ToolFailure surfaces a java binary that does not run.
func TestDetectToolchain_ToolFailure(t *testing.T) {
	t.Parallel()

	runner := commontest.NewFakeRunner().Fail("java", 127, "not found")

	_, err := DetectToolchain(context.Background(), runner, "/nowhere")
	require.ErrorIs(t, err, packaging.ErrExternalTool)
}

// TestDetectToolchain_LegacyJDK maps a 1.x version reported by a JDK 8 home.
func TestDetectToolchain_LegacyJDK(t *testing.T) {
	t.Parallel()

	var invoked []common.Command

	runner := common.RunnerFunc(func(_ context.Context, cmd common.Command) (*common.Result, error) {
		invoked = append(invoked, cmd)

		return &common.Result{Output: []byte("java version \"1.8.0_292\"\nJava(TM) SE Runtime Environment\n")}, nil
	})

	toolchain, err := DetectToolchain(context.Background(), runner, "/usr/lib/jvm/java-8")
	require.NoError(t, err)
	require.Equal(t, 8, toolchain.Major)
	require.Len(t, invoked, 1)
	require.Equal(t, toolchain.Tool("java"), invoked[0].Name)
}
