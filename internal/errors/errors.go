// Package errors provides the structured errors shared by the repository, CLI,
// and TUI layers. Repository operations report failures as values; nothing in
// the system panics across a package boundary.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Command errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeInvalidCommand  ErrorCode = "INVALID_COMMAND"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo    ErrorSeverity = "info"
	SeverityWarning ErrorSeverity = "warning"
	SeverityError   ErrorSeverity = "error"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Severity  ErrorSeverity `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
	Cause     error         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ValidationError creates an error for rejected user input. Validation
// failures are expected outcomes: the operation was a no-op and the caller
// surfaces the message.
func ValidationError(message string) *AppError {
	return &AppError{
		Code:      ErrCodeValidation,
		Message:   message,
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
	}
}

// NotFoundError creates an error for a missing resource.
func NotFoundError(resource, id string) *AppError {
	return &AppError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
	}
}

// StorageError wraps a persistence failure.
func StorageError(message string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeStorageFailure,
		Message:   message,
		Severity:  SeverityError,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

// GetAppError extracts an AppError from err, or nil if there is none.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
