//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oshokin/java-packager/internal/domain/packaging"
	"github.com/oshokin/java-packager/internal/logger"
)

// maxOutputInError limits how much tool output is echoed in error messages.
const maxOutputInError = 2048

// Command is a single external tool invocation.
type Command struct {
	// Name is the executable, either a path or a name resolved through PATH.
	Name string
	// Args are passed verbatim, no shell is involved.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Tool returns the executable base name without a Windows extension.
func (c Command) Tool() string {
	return strings.TrimSuffix(filepath.Base(c.Name), ".exe")
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is what an external tool produced.
type Result struct {
	// Output is the combined stdout and stderr.
	Output []byte
	// ExitCode is the process exit status, -1 when it could not be started.
	ExitCode int
}

// Runner runs external tools synchronously.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// ToolError reports an external tool that failed to start or exited non-zero.
// It matches packaging.ErrExternalTool with errors.Is.
type ToolError struct {
	Command  Command
	ExitCode int
	Output   string
	Err      error
}

// NewToolError builds a ToolError from a command and its result.
func NewToolError(cmd Command, result *Result, cause error) *ToolError {
	toolErr := &ToolError{
		Command:  cmd,
		ExitCode: -1,
		Err:      cause,
	}

	if result != nil {
		toolErr.ExitCode = result.ExitCode
		toolErr.Output = string(result.Output)
	}

	return toolErr
}

// Error implements error.
func (e *ToolError) Error() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s exited with status %d", e.Command.Tool(), e.ExitCode)

	if e.Err != nil && e.ExitCode < 0 {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}

	if output := strings.TrimSpace(e.Output); output != "" {
		if len(output) > maxOutputInError {
			output = "..." + output[len(output)-maxOutputInError:]
		}

		builder.WriteString(": ")
		builder.WriteString(output)
	}

	return builder.String()
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{packaging.ErrExternalTool}
	}

	return []error{packaging.ErrExternalTool, e.Err}
}

// ExecRunner runs tools as child processes.
type ExecRunner struct {
	// env is appended to the inherited environment.
	env []string
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithEnv appends KEY=VALUE pairs to the environment of every tool.
func WithEnv(kvs ...string) Option {
	return func(r *ExecRunner) {
		r.env = append(r.env, kvs...)
	}
}

// errCommandRequired is returned when a Command has no executable.
var errCommandRequired = errors.New("command name must be provided")

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner(opts ...Option) *ExecRunner {
	runner := new(ExecRunner)

	for _, opt := range opts {
		opt(runner)
	}

	return runner
}

// Run starts the tool, waits for it and captures its combined output.
// No timeout is applied; the call blocks until the tool exits or ctx is canceled.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Name == "" {
		return nil, errCommandRequired
	}

	logger.DebugKV(ctx, "Running external tool", "command", cmd.String(), "dir", cmd.Dir)

	//nolint:gosec // Tool names and arguments come from the packager itself.
	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir

	if len(r.env) > 0 {
		process.Env = append(os.Environ(), r.env...)
	}

	output, err := process.CombinedOutput()

	result := &Result{
		Output:   output,
		ExitCode: -1,
	}

	if process.ProcessState != nil {
		result.ExitCode = process.ProcessState.ExitCode()
	}

	if err != nil {
		return result, NewToolError(cmd, result, err)
	}

	return result, nil
}
