package errors

import (
	"errors"
	"fmt"
)

// Stage identifiers used in error reporting so a failed run names the
// stage it died in.
const (
	StageFetch   = "fetch"
	StageAnalyze = "analyze"
	StagePublish = "publish"
)

// Error codes for the pipeline failure taxonomy
const (
	CodeAuthFailed         = "AUTH_FAILED"
	CodeDownloadFailed     = "DOWNLOAD_FAILED"
	CodeDatasetMissing     = "DATASET_MISSING"
	CodeDatasetMalformed   = "DATASET_MALFORMED"
	CodeProjectRootMissing = "PROJECT_ROOT_MISSING"
	CodePublishFailed      = "PUBLISH_FAILED"
	CodeStageFailed        = "STAGE_FAILED"
)

// StageError represents a structured pipeline error. Every fatal error
// crossing a stage boundary carries the stage name and a stable code.
type StageError struct {
	Stage   string
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap returns the wrapped error
func (e *StageError) Unwrap() error {
	return e.Err
}

// New creates a new StageError with the given parameters
func New(stage, code, message string) *StageError {
	return &StageError{
		Stage:   stage,
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new StageError wrapping an underlying cause
func Wrap(stage, code, message string, err error) *StageError {
	return &StageError{
		Stage:   stage,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Code returns the error code of err if it is (or wraps) a StageError,
// or an empty string otherwise.
func Code(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code
func IsCode(err error, code string) bool {
	return Code(err) == code
}

// Stage returns the stage name of err if it is (or wraps) a StageError
func Stage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Helper constructors for the common failure scenarios

// AuthFailed creates an authentication failure error (fatal, aborts
// before any download is attempted).
func AuthFailed(err error) *StageError {
	return Wrap(StageFetch, CodeAuthFailed, "authentication failed", err)
}

// DownloadFailed creates a download failure error (fatal, the dataset
// file is left untouched).
func DownloadFailed(err error) *StageError {
	return Wrap(StageFetch, CodeDownloadFailed, "dataset download failed", err)
}

// DatasetMissing creates a missing-dataset error at analysis time
func DatasetMissing(path string, err error) *StageError {
	return Wrap(StageAnalyze, CodeDatasetMissing, fmt.Sprintf("dataset file %s not found", path), err)
}

// DatasetMalformed creates a malformed-dataset error at analysis time
func DatasetMalformed(err error) *StageError {
	return Wrap(StageAnalyze, CodeDatasetMalformed, "dataset file could not be parsed", err)
}

// ProjectRootMissing creates a missing-project-root error at deploy time
func ProjectRootMissing(path string) *StageError {
	return New(StagePublish, CodeProjectRootMissing, fmt.Sprintf("project root %s does not exist", path))
}

// PublishFailed creates a publish failure error
func PublishFailed(err error) *StageError {
	return Wrap(StagePublish, CodePublishFailed, "publish failed", err)
}
