package jre

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oshokin/java-packager/internal/logger"
	"github.com/oshokin/java-packager/internal/service/common"
)

const (
	// AllModulePath asks jlink for every module on the module path.
	AllModulePath = "ALL-MODULE-PATH"

	// removedInternalPrefix starts --list-deps lines about internal APIs that are not modules.
	removedInternalPrefix = "JDK removed internal"
)

// ModuleSet is an ordered list of module names. Duplicates are kept.
type ModuleSet []string

// String joins the modules the way jlink expects them.
func (m ModuleSet) String() string {
	return strings.Join(m, ",")
}

// ResolveModules works out the modules a trimmed runtime needs and appends
// the additional ones, whichever way the base set was found.
func (a *Assembler) ResolveModules(ctx context.Context, req *Request, toolchain *Toolchain) (ModuleSet, error) {
	var (
		modules    ModuleSet
		configured = trimModules(req.Modules)
		err        error
	)

	switch {
	case req.Customized && len(configured) > 0:
		modules = configured
	case req.Customized && toolchain.Major >= a.thresholds.PrintModuleDeps:
		modules, err = a.analyse(ctx, req, toolchain, "--ignore-missing-deps", "--print-module-deps")
	case req.Customized && toolchain.Major >= a.thresholds.MinLink:
		modules, err = a.analyse(ctx, req, toolchain, "--list-deps")
	default:
		modules = ModuleSet{AllModulePath}
	}

	if err != nil {
		return nil, err
	}

	modules = append(modules, trimModules(req.AdditionalModules)...)

	logger.InfoKV(ctx, "Resolved runtime modules", "modules", modules.String())

	return modules, nil
}

// analyse runs jdeps in the given mode against the collected libs and the main jar.
func (a *Assembler) analyse(ctx context.Context, req *Request, toolchain *Toolchain, mode ...string) (ModuleSet, error) {
	libs, err := filepath.Glob(filepath.Join(req.LibsDir, "*.jar"))
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}

	args := append([]string{"-q"}, mode...)
	args = append(args, "--multi-release", strconv.Itoa(toolchain.Major))
	args = append(args, libs...)
	args = append(args, req.JarFile)

	logger.Info(ctx, "Getting required modules")

	result, err := a.runner.Run(ctx, common.Command{
		Name: toolchain.Tool("jdeps"),
		Args: args,
	})
	if err != nil {
		return nil, fmt.Errorf("analyse module dependencies: %w", err)
	}

	if mode[len(mode)-1] == "--list-deps" {
		return parseListDeps(string(result.Output)), nil
	}

	return parseModuleDeps(string(result.Output)), nil
}

// parseModuleDeps splits --print-module-deps output: one comma-separated line.
func parseModuleDeps(output string) ModuleSet {
	return trimModules(strings.Split(output, ","))
}

// parseListDeps splits --list-deps output: one module per line.
func parseListDeps(output string) ModuleSet {
	var modules ModuleSet

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, removedInternalPrefix) {
			continue
		}

		modules = append(modules, line)
	}

	return modules
}

// trimModules trims names and drops blanks.
func trimModules(names []string) ModuleSet {
	modules := make(ModuleSet, 0, len(names))

	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			modules = append(modules, name)
		}
	}

	return modules
}
