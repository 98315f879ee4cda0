package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"nokicli/internal/infrastructure"
)

// Manager runs pipeline steps strictly in order, checking each step's
// result before the next starts. It replaces shell-level orchestration
// chained on process exit codes.
type Manager struct {
	logger *slog.Logger
	tracer trace.Tracer
	steps  []Step
}

// NewManager creates a pipeline manager for the given steps
func NewManager(logger *slog.Logger, tracer trace.Tracer, steps ...Step) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("nokicli")
	}
	return &Manager{
		logger: logger,
		tracer: tracer,
		steps:  steps,
	}
}

// Run executes all steps sequentially. The first failure aborts the
// run: remaining steps are marked skipped and never execute, so a
// failed run can never partially publish.
func (m *Manager) Run(ctx context.Context) (*RunResult, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)
	state := NewState(runID)

	for _, step := range m.steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	logger := m.logger.With(slog.String("run_id", runID))
	logger.Info("Pipeline run starting", slog.Int("steps", len(m.steps)))

	var failed string
	var runErr error

	for _, step := range m.steps {
		stepState := state.StepState(step.ID())

		if runErr != nil {
			stepState.Skip(fmt.Sprintf("skipped: step %s failed", failed))
			logger.Warn("Step skipped",
				slog.String("step", step.ID()),
				slog.String("after_failure_of", failed))
			continue
		}

		if err := m.runStep(ctx, step, state, logger); err != nil {
			failed = step.ID()
			runErr = err
		}
	}

	result := &RunResult{
		RunID:    runID,
		Duration: time.Since(state.Start),
		Steps:    state.Steps(),
		Failed:   failed,
	}

	if runErr != nil {
		logger.Error("Pipeline run failed",
			slog.String("failed_step", failed),
			slog.Duration("duration", result.Duration),
			slog.String("error", runErr.Error()))
		return result, runErr
	}

	logger.Info("Pipeline run complete", slog.Duration("duration", result.Duration))
	return result, nil
}

// runStep validates and executes a single step under its own span
func (m *Manager) runStep(ctx context.Context, step Step, state *State, logger *slog.Logger) error {
	ctx, span := m.tracer.Start(ctx, "step."+step.ID(),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
			attribute.String("run.id", state.RunID),
		))
	defer span.End()

	stepState := state.StepState(step.ID())

	if err := step.Validate(state); err != nil {
		stepState.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		logger.Error("Step validation failed",
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return fmt.Errorf("step %s validation failed: %w", step.ID(), err)
	}

	stepState.Start()
	logger.Info("Step starting",
		slog.String("step", step.ID()),
		slog.String("name", step.Name()))

	if err := step.Execute(ctx, state); err != nil {
		stepState.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "execution failed")
		logger.Error("Step failed",
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()),
			slog.String("error", err.Error()))
		return fmt.Errorf("step %s failed: %w", step.ID(), err)
	}

	stepState.Complete()
	span.SetStatus(codes.Ok, "")
	logger.Info("Step completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", stepState.Duration()))

	return nil
}
