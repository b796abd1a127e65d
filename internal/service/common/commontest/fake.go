// Package commontest provides a scripted common.Runner for tests.
package commontest

import (
	"context"
	"sync"

	"github.com/oshokin/java-packager/internal/service/common"
)

// Handler answers one invocation of a scripted tool.
type Handler func(cmd common.Command) (*common.Result, error)

// FakeRunner records every invocation and answers through per-tool handlers.
// Tools without a handler succeed with empty output.
type FakeRunner struct {
	mu       sync.Mutex
	calls    []common.Command
	handlers map[string]Handler
}

// NewFakeRunner returns a runner where every tool succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		handlers: make(map[string]Handler),
	}
}

// On scripts the tool (matched by common.Command.Tool) with h.
func (f *FakeRunner) On(tool string, h Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers[tool] = h

	return f
}

// Output scripts the tool to succeed with the given output.
func (f *FakeRunner) Output(tool, output string) *FakeRunner {
	return f.On(tool, func(common.Command) (*common.Result, error) {
		return &common.Result{Output: []byte(output)}, nil
	})
}

// Fail scripts the tool to exit with the given status and output.
func (f *FakeRunner) Fail(tool string, exitCode int, output string) *FakeRunner {
	return f.On(tool, func(cmd common.Command) (*common.Result, error) {
		result := &common.Result{Output: []byte(output), ExitCode: exitCode}

		return result, common.NewToolError(cmd, result, nil)
	})
}

// Run implements common.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd common.Command) (*common.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	h, ok := f.handlers[cmd.Tool()]
	f.mu.Unlock()

	if !ok {
		return &common.Result{}, nil
	}

	return h(cmd)
}

// Calls returns every recorded invocation in order.
func (f *FakeRunner) Calls() []common.Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]common.Command(nil), f.calls...)
}

// CallsTo returns the recorded invocations of one tool.
func (f *FakeRunner) CallsTo(tool string) []common.Command {
	var matched []common.Command

	for _, cmd := range f.Calls() {
		if cmd.Tool() == tool {
			matched = append(matched, cmd)
		}
	}

	return matched
}
