package sequencer

import "time"

// Status values used across SequenceResult and StepResult.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusSkipped   = "skipped"
	StatusHandedOff = "handed-off"
	StatusAborted   = "aborted"
)

// Step names recorded in SequenceResult.Steps, in execution order.
const (
	StepStart   = "start"
	StepInit    = "init"
	StepStop    = "stop"
	StepHandoff = "handoff"
)

// State is the sequencer's position in the boot sequence. The only terminal
// states are StateHandedOff and StateAborted; there is no transition out of
// either within this process's lifetime.
type State int

const (
	StateNotStarted State = iota
	StateServiceStarting
	StateServiceRunning
	StateInitializing
	StateServiceStopping
	StateHandedOff
	StateAborted
)

// String returns the state name used in logs and the persisted result.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateServiceStarting:
		return "service-starting"
	case StateServiceRunning:
		return "service-running"
	case StateInitializing:
		return "initializing"
	case StateServiceStopping:
		return "service-stopping"
	case StateHandedOff:
		return "handed-off"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StepResult represents the outcome of a single sequence step.
type StepResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"` // "ok", "error", "skipped"
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// SequenceResult is the aggregate result of one boot sequence run. It is
// persisted just before the process image is replaced, so it is the only
// record of the run that survives the handoff.
type SequenceResult struct {
	Status     string       `json:"status"` // "handed-off" or "aborted"
	Steps      []StepResult `json:"steps"`
	Args       []string     `json:"args,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Step returns the named step result and true when it was recorded.
func (r *SequenceResult) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// ProbeResult is returned by the deep-health prober for each exposed port.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}
