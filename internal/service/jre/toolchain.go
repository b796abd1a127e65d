package jre

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/service/common"
)

// Toolchain is the host JDK used to analyse and link runtime images.
type Toolchain struct {
	// Home is the JDK installation folder.
	Home string
	// Major is the feature release number, 8 for "1.8.0_292", 17 for "17.0.2".
	Major int
}

var (
	// versionPattern extracts the quoted version from `java -version` output.
	versionPattern = regexp.MustCompile(`version "([^"]+)"`)

	errUnknownJavaVersion = errors.New("unable to parse java version")
	errJavaHomeRequired   = fmt.Errorf(
		"%w: javaHome is not set and JAVA_HOME is empty, set javaHome to a JDK or jrePath to an existing runtime",
		packaging.ErrConfiguration)
)

// DetectToolchain runs `java -version` from home and parses its major version.
func DetectToolchain(ctx context.Context, runner common.Runner, home string) (*Toolchain, error) {
	if home == "" {
		return nil, errJavaHomeRequired
	}

	toolchain := &Toolchain{Home: home}

	result, err := runner.Run(ctx, common.Command{
		Name: toolchain.Tool("java"),
		Args: []string{"-version"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect java version: %w", err)
	}

	toolchain.Major, err = ParseJavaVersion(string(result.Output))
	if err != nil {
		return nil, err
	}

	return toolchain, nil
}

// ParseJavaVersion returns the major version reported by `java -version`.
func ParseJavaVersion(output string) (int, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", errUnknownJavaVersion, strings.TrimSpace(output))
	}

	parts := strings.FieldsFunc(match[1], func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return 0, fmt.Errorf("%w: %q", errUnknownJavaVersion, match[1])
	}

	// Pre-9 releases report themselves as 1.x.
	if parts[0] == "1" && len(parts) > 1 {
		parts = parts[1:]
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errUnknownJavaVersion, match[1])
	}

	return major, nil
}

// Tool returns the path of a JDK binary.
func (t *Toolchain) Tool(name string) string {
	return filepath.Join(t.Home, "bin", name)
}

// ModulesDir returns the folder holding the JDK's jmod files.
func (t *Toolchain) ModulesDir() string {
	return filepath.Join(t.Home, "jmods")
}
