package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Normalization errors
	ErrEmptyInput      = errors.New("no usable data located")
	ErrNoHeaderFound   = errors.New("no header row found")
	ErrAmbiguousHeader = errors.New("duplicate column names in header")

	// Canonicalization errors
	ErrMissingColumn = errors.New("required column missing")
	ErrAmbiguousRule = errors.New("rename rule matches multiple columns")

	// Roster errors
	ErrEmptyRoster = errors.New("roster has no entries")
)

// Stage identifies a pipeline stage in error reports and logs.
type Stage string

const (
	StageNormalize    Stage = "normalize"
	StageCanonicalize Stage = "canonicalize"
	StageMajority     Stage = "majority_vote"
	StageMasterLookup Stage = "master_lookup"
	StageDirectors    Stage = "director_merge"
	StagePropagate    Stage = "propagate"
)

// StageError attributes a failure to the pipeline stage that produced it.
// Every hard failure crossing the app boundary carries one.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage that produced it. Nil err passes through.
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// FailedStage returns the stage attributed to err, or "" if none is recorded.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Error constructors with context
func NewNoHeaderError(sheet string) error {
	return fmt.Errorf("%w: sheet %q has no row with more than 3 filled cells", ErrNoHeaderFound, sheet)
}

func NewAmbiguousHeaderError(column string) error {
	return fmt.Errorf("%w: %q appears more than once", ErrAmbiguousHeader, column)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

// Error checking helpers
func IsEmptyInput(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

func IsNormalizationError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoHeaderFound) ||
		errors.Is(err, ErrAmbiguousHeader)
}

func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}
