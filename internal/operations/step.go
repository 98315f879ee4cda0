package operations

import (
	"context"
	"sync"
	"time"
)

// Step represents a single stage in the pipeline
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step. An error aborts the pipeline; no later
	// step runs after a failure.
	Execute(ctx context.Context, state *State) error

	// Validate checks whether the step can be executed with the
	// current state, before any side effect is taken.
	Validate(state *State) error
}

// StepState represents the runtime state of a step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Err       error
}

// NewStepState creates a new step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
}

// Skip marks the step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// State carries per-run information shared with steps
type State struct {
	mu     sync.RWMutex
	RunID  string
	Start  time.Time
	steps  map[string]*StepState
	order  []string
	values map[string]any
}

// NewState creates run state for the given run ID
func NewState(runID string) *State {
	return &State{
		RunID:  runID,
		Start:  time.Now(),
		steps:  make(map[string]*StepState),
		values: make(map[string]any),
	}
}

// AddStep registers a step's state in run order
func (s *State) AddStep(st *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[st.ID] = st
	s.order = append(s.order, st.ID)
}

// StepState returns the state for a step ID, or nil
func (s *State) StepState(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[id]
}

// Steps returns step states in run order
func (s *State) Steps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StepState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.steps[id])
	}
	return out
}

// Set stores a shared value produced by a step
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get retrieves a shared value
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
