package errors

import (
	"errors"
	"fmt"

	"orgrecon/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Stage   core.Stage
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Stage:   appErr.Stage,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeForDomainError(err),
		Stage:   core.FailedStage(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise maps the
// domain sentinel
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeForDomainError(err)
}

// Predefined error codes
const (
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeNoHeader        = "NO_HEADER_FOUND"
	CodeAmbiguousHeader = "AMBIGUOUS_HEADER"
	CodeMissingColumn   = "MISSING_COLUMN"
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeDatabaseError   = "DATABASE_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInternalError   = "INTERNAL_ERROR"
)

// CodeForDomainError maps the engine's sentinel errors to transport codes.
func CodeForDomainError(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		return CodeEmptyInput
	case errors.Is(err, core.ErrNoHeaderFound):
		return CodeNoHeader
	case errors.Is(err, core.ErrAmbiguousHeader):
		return CodeAmbiguousHeader
	case errors.Is(err, core.ErrMissingColumn):
		return CodeMissingColumn
	case err == nil:
		return ""
	default:
		return CodeInternalError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
