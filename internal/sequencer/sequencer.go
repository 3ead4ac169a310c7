package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Controller starts and stops the managed database instance. Both calls are
// single-attempt: the sequencer never retries.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// SessionRunner feeds the one-time import script to an interactive session of
// the running instance, appending combined stdout/stderr to the transcript.
// It is satisfied by *iris.Session.
type SessionRunner interface {
	RunScript(ctx context.Context) error
}

// ExecFunc replaces the current process image with the main process,
// forwarding args. On success it never returns; a returned error means the
// replacement itself failed and this process is still alive.
type ExecFunc func(args []string) error

// Recorder persists the sequence result before control leaves this process.
// It is satisfied by *runstore.Store. Persistence is best-effort: a save
// failure is logged but never blocks the sequence.
type Recorder interface {
	Save(res *SequenceResult) error
}

// Policy controls the deliberately-configurable edges of the sequence.
// Zero timeouts mean an unbounded wait, matching the original entrypoint.
type Policy struct {
	// AbortOnInitFailure exits non-zero instead of handing off when the
	// import script fails. The stop step still runs either way.
	AbortOnInitFailure bool
	StartTimeout       time.Duration
	InitTimeout        time.Duration
	StopTimeout        time.Duration
}

// Sequencer runs the four-step boot sequence exactly once:
// start the instance, run the import script, stop the instance, exec the
// main process. No concurrency, no retries.
type Sequencer struct {
	controller Controller
	session    SessionRunner
	exec       ExecFunc
	recorder   Recorder
	policy     Policy

	mu    sync.RWMutex
	state State
}

// New constructs a Sequencer. recorder may be nil when no run store is
// configured.
func New(controller Controller, session SessionRunner, exec ExecFunc, recorder Recorder, policy Policy) *Sequencer {
	return &Sequencer{
		controller: controller,
		session:    session,
		exec:       exec,
		recorder:   recorder,
		policy:     policy,
		state:      StateNotStarted,
	}
}

// State returns the sequencer's current state.
func (s *Sequencer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Sequencer) transition(ctx context.Context, next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	slog.DebugContext(ctx, "sequence state", "state", next.String())
}

// Run executes the boot sequence and, on success, does not return: the final
// step replaces this process with the main process. A returned nil therefore
// only happens in tests where exec is faked. A returned error means the
// sequence aborted (start failure, init failure under AbortOnInitFailure, or
// a failed exec) and the process should exit non-zero.
func (s *Sequencer) Run(ctx context.Context, args []string) error {
	result := &SequenceResult{
		Status:    StatusAborted,
		Args:      args,
		StartedAt: time.Now().UTC(),
	}

	ctx, span := otel.Tracer("irisboot").Start(ctx, "irisboot.sequence")
	defer span.End()

	slog.InfoContext(ctx, "boot sequence started")

	// Step 1: start. Failure is fatal — nothing was started, so there is
	// nothing to stop and no transcript to write.
	s.transition(ctx, StateServiceStarting)
	startErr := s.step(ctx, result, StepStart, s.policy.StartTimeout, s.controller.Start)
	if startErr != nil {
		s.abort(ctx, span, result, StepInit, StepStop, StepHandoff)
		return fmt.Errorf("starting instance: %w", startErr)
	}
	s.transition(ctx, StateServiceRunning)

	// Step 2: run the import script. The error is captured as a typed step
	// result; whether it aborts the sequence is a policy decision, not an
	// accident of the control flow.
	s.transition(ctx, StateInitializing)
	initErr := s.step(ctx, result, StepInit, s.policy.InitTimeout, s.session.RunScript)
	if initErr != nil {
		slog.WarnContext(ctx, "import script failed", "error", initErr, "abort_on_init_failure", s.policy.AbortOnInitFailure)
	}

	// Step 3: stop. Runs unconditionally after the init step. A stop failure
	// is logged and recorded but never blocks the handoff: the main process
	// re-initializes the instance on its own startup.
	s.transition(ctx, StateServiceStopping)
	if stopErr := s.step(ctx, result, StepStop, s.policy.StopTimeout, s.controller.Stop); stopErr != nil {
		slog.WarnContext(ctx, "instance did not stop cleanly, proceeding to handoff", "error", stopErr)
	}

	if initErr != nil && s.policy.AbortOnInitFailure {
		s.abort(ctx, span, result, StepHandoff)
		return fmt.Errorf("import script failed: %w", initErr)
	}

	// Step 4: handoff. One-way transfer — persist the result first, since
	// nothing in this process survives a successful exec.
	s.transition(ctx, StateHandedOff)
	result.Status = StatusHandedOff
	result.Steps = append(result.Steps, StepResult{Name: StepHandoff, Status: StatusOK})
	result.FinishedAt = time.Now().UTC()
	s.record(ctx, result)

	span.SetAttributes(attribute.String("sequence.status", result.Status))
	span.SetStatus(codes.Ok, "")
	slog.InfoContext(ctx, "handing off to main process", "args", args)

	if err := s.exec(args); err != nil {
		return fmt.Errorf("exec main process: %w", err)
	}
	return nil
}

// step runs fn with an optional timeout and records its outcome on result.
func (s *Sequencer) step(ctx context.Context, result *SequenceResult, name string, timeout time.Duration, fn func(context.Context) error) error {
	stepCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(stepCtx)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		result.Steps = append(result.Steps, StepResult{
			Name:       name,
			Status:     StatusError,
			Error:      err.Error(),
			DurationMs: elapsed,
		})
		return err
	}

	result.Steps = append(result.Steps, StepResult{Name: name, Status: StatusOK, DurationMs: elapsed})
	slog.InfoContext(ctx, "sequence step ok", "step", name, "duration_ms", elapsed)
	return nil
}

// abort marks the remaining steps skipped and finalizes the result.
func (s *Sequencer) abort(ctx context.Context, span trace.Span, result *SequenceResult, skipped ...string) {
	s.transition(ctx, StateAborted)
	for _, name := range skipped {
		result.Steps = append(result.Steps, StepResult{Name: name, Status: StatusSkipped})
	}
	result.Status = StatusAborted
	result.FinishedAt = time.Now().UTC()
	s.record(ctx, result)

	span.SetAttributes(attribute.String("sequence.status", result.Status))
	span.SetStatus(codes.Error, "boot sequence aborted")
}

// record persists the result best-effort.
func (s *Sequencer) record(ctx context.Context, result *SequenceResult) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Save(result); err != nil {
		slog.WarnContext(ctx, "failed to persist sequence result", "error", err)
	}
}
