package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoText       = errors.New("no text acquired")
	ErrUnsupported  = errors.New("unsupported file type")
	ErrInternal     = errors.New("internal error")

	// ErrBatchFatal marks failures that must stop the whole batch
	// (bad credentials, unwritable outputs) rather than a single document.
	ErrBatchFatal = errors.New("batch-fatal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsBatchFatal reports whether err must terminate the batch.
func IsBatchFatal(err error) bool {
	return errors.Is(err, ErrBatchFatal)
}
