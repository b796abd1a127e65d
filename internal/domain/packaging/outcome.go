package packaging

// Status is the tag of a stage Outcome.
type Status string

const (
	// StatusApplied means the stage did its work.
	StatusApplied Status = "applied"
	// StatusSkipped means the stage was not applicable or degraded gracefully.
	StatusSkipped Status = "skipped"
	// StatusFailed means a degradable stage failed and the run continued without it.
	StatusFailed Status = "failed"
)

// Outcome is the tagged result of a pipeline stage.
type Outcome struct {
	// Stage is a short stage identifier, e.g. "runtime" or "rpm".
	Stage string
	// Status tells the orchestrator how to branch.
	Status Status
	// Reason explains a skip.
	Reason string
	// Err is set for failed stages.
	Err error
}

// Applied returns an applied outcome for the stage.
func Applied(stage string) Outcome {
	return Outcome{Stage: stage, Status: StatusApplied}
}

// Skipped returns a skipped outcome with a reason.
func Skipped(stage, reason string) Outcome {
	return Outcome{Stage: stage, Status: StatusSkipped, Reason: reason}
}

// Failed returns a failed outcome wrapping err.
func Failed(stage string, err error) Outcome {
	return Outcome{Stage: stage, Status: StatusFailed, Err: err}
}

// IsApplied reports whether the stage did its work.
func (o Outcome) IsApplied() bool {
	return o.Status == StatusApplied
}

// Detail returns the reason or the error text, whichever applies.
func (o Outcome) Detail() string {
	if o.Err != nil {
		return o.Err.Error()
	}

	return o.Reason
}
