package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDFetch   = "fetch"
	StepIDAnalyze = "analyze"
	StepIDPublish = "publish"
)

// Pipeline step names
const (
	StepNameFetch   = "Dataset Download"
	StepNameAnalyze = "Analysis & Report"
	StepNamePublish = "Publish"
)

// Default timeouts for the steps that shell out or hit the network, so
// a hung download or deploy command can never stall a scheduled run.
// The analysis step is pure local computation and runs unbounded.
const (
	DefaultFetchTimeout   = 2 * time.Minute
	DefaultPublishTimeout = 10 * time.Minute
)

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// RunResult summarizes a completed (or aborted) pipeline run
type RunResult struct {
	RunID    string
	Duration time.Duration
	Steps    []*StepState
	Failed   string // ID of the step that failed, if any
}
