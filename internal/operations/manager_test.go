package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nokicli/internal/infrastructure"
)

// fakeStep records execution order and fails on demand
type fakeStep struct {
	id          string
	validateErr error
	executeErr  error
	calls       *[]string
}

func (s *fakeStep) ID() string   { return s.id }
func (s *fakeStep) Name() string { return "Fake " + s.id }

func (s *fakeStep) Validate(state *State) error {
	return s.validateErr
}

func (s *fakeStep) Execute(ctx context.Context, state *State) error {
	*s.calls = append(*s.calls, s.id)
	return s.executeErr
}

func TestManagerRun(t *testing.T) {
	var calls []string
	manager := NewManager(nil, nil,
		&fakeStep{id: "fetch", calls: &calls},
		&fakeStep{id: "analyze", calls: &calls},
		&fakeStep{id: "publish", calls: &calls},
	)

	result, err := manager.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"fetch", "analyze", "publish"}, calls)
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Failed)

	require.Len(t, result.Steps, 3)
	for _, st := range result.Steps {
		assert.Equal(t, StepStatusCompleted, st.Status, st.ID)
	}
}

func TestManagerRun_FailureSkipsRemainingSteps(t *testing.T) {
	var calls []string
	boom := errors.New("analyze blew up")
	manager := NewManager(nil, nil,
		&fakeStep{id: "fetch", calls: &calls},
		&fakeStep{id: "analyze", calls: &calls, executeErr: boom},
		&fakeStep{id: "publish", calls: &calls},
	)

	result, err := manager.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// publish never executed
	assert.Equal(t, []string{"fetch", "analyze"}, calls)
	assert.Equal(t, "analyze", result.Failed)

	require.Len(t, result.Steps, 3)
	assert.Equal(t, StepStatusCompleted, result.Steps[0].Status)
	assert.Equal(t, StepStatusFailed, result.Steps[1].Status)
	assert.Equal(t, StepStatusSkipped, result.Steps[2].Status)
	assert.Contains(t, result.Steps[2].Message, "analyze")
}

func TestManagerRun_ValidationFailureBlocksExecution(t *testing.T) {
	var calls []string
	manager := NewManager(nil, nil,
		&fakeStep{id: "fetch", calls: &calls, validateErr: errors.New("no credentials")},
		&fakeStep{id: "analyze", calls: &calls},
	)

	result, err := manager.Run(context.Background())
	require.Error(t, err)

	assert.Empty(t, calls, "a step failing validation must not execute")
	assert.Equal(t, "fetch", result.Failed)
	assert.Equal(t, StepStatusFailed, result.Steps[0].Status)
	assert.Equal(t, StepStatusSkipped, result.Steps[1].Status)
}

func TestManagerRun_RunIDInContext(t *testing.T) {
	var seen string
	step := &ctxStep{onExecute: func(ctx context.Context) {
		seen = infrastructure.GetRunID(ctx)
	}}

	result, err := manager(step).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.RunID, seen)
}

func TestManagerRun_NoSteps(t *testing.T) {
	result, err := NewManager(nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Steps)
	assert.Empty(t, result.Failed)
}

func manager(steps ...Step) *Manager {
	return NewManager(nil, nil, steps...)
}

// ctxStep exposes the execution context to the test
type ctxStep struct {
	onExecute func(ctx context.Context)
}

func (s *ctxStep) ID() string            { return "ctx" }
func (s *ctxStep) Name() string          { return "Context probe" }
func (s *ctxStep) Validate(*State) error { return nil }

func (s *ctxStep) Execute(ctx context.Context, _ *State) error {
	s.onExecute(ctx)
	return nil
}

func TestStateValues(t *testing.T) {
	state := NewState("run-1")
	state.Set("participants", 42)

	v, ok := state.Get("participants")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = state.Get("missing")
	assert.False(t, ok)
}

func TestStepStateTransitions(t *testing.T) {
	st := NewStepState("fetch", "Dataset Download")
	assert.Equal(t, StepStatusPending, st.Status)
	assert.Zero(t, st.Duration())

	st.Start()
	assert.Equal(t, StepStatusActive, st.Status)

	st.Complete()
	assert.Equal(t, StepStatusCompleted, st.Status)
	assert.GreaterOrEqual(t, st.Duration(), time.Duration(0))
}
