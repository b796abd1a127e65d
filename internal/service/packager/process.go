package packager

import (
	"context"
	"os"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/java-packager/internal/logger"
)

// ProcessLister returns the processes running on the host.
type ProcessLister func() ([]ps.Process, error)

func listProcesses() ([]ps.Process, error) {
	return ps.Processes()
}

// warnIfRunning warns when the application being packaged is running, since
// its files may be locked. Listing failures are ignored.
func (p *Packager) warnIfRunning(ctx context.Context, name string) {
	processList, err := p.processes()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)

		return
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if executable := process.Executable(); executable != name && executable != name+".exe" {
			continue
		}

		logger.WarnKV(ctx, "The application is running, bundle files may be locked", "pid", process.Pid())

		return
	}
}
