// Package errors provides standardized error handling for the assistant pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeWorkOrderNotFound ErrorCode = "WORK_ORDER_NOT_FOUND"
	ErrCodeAuthFailure       ErrorCode = "AUTH_FAILURE"
	ErrCodePermissionDenied  ErrorCode = "PERMISSION_DENIED"
	ErrCodeUpstreamFailure   ErrorCode = "UPSTREAM_FAILURE"
	ErrCodeParseAmbiguity    ErrorCode = "PARSE_AMBIGUITY"
	ErrCodeInvalidFilter     ErrorCode = "INVALID_FILTER"
	ErrCodeInvalidIntent     ErrorCode = "INVALID_INTENT"
	ErrCodeAuditWriteFailed  ErrorCode = "AUDIT_WRITE_FAILED"
	ErrCodeNLPUnavailable    ErrorCode = "NLP_UNAVAILABLE"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewWorkOrderNotFoundError creates a non-retryable lookup error. The message
// is user-facing and must contain the reference the user asked for.
func NewWorkOrderNotFoundError(ref string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkOrderNotFound,
		Message:   fmt.Sprintf("Work order %q not found", ref),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthFailureError creates a non-retryable ERP authentication error.
func NewAuthFailureError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthFailure,
		Message:   "Authentication failed.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPermissionDeniedError creates a non-retryable authorization error.
func NewPermissionDeniedError(intent string) *StandardError {
	return &StandardError{
		Code:      ErrCodePermissionDenied,
		Message:   "Permission denied.",
		Details:   fmt.Sprintf("intent: %s", intent),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamFailureError creates a retryable ERP transport error.
func NewUpstreamFailureError(resource string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamFailure,
		Message:   "ERP call failed",
		Details:   fmt.Sprintf("resource: %s, error: %s", resource, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError creates a non-retryable listing-filter error.
func NewInvalidFilterError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   "No valid client, project manager, or start date found in your query.",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidIntentError creates a non-retryable routing error.
func NewInvalidIntentError(intent string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidIntent,
		Message:   "Unsupported intent",
		Details:   fmt.Sprintf("intent: %s", intent),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNLPUnavailableError creates a retryable intent-service error.
func NewNLPUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNLPUnavailable,
		Message:   "Intent service error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuditWriteFailedError creates a retryable audit persistence error. Audit
// failures are logged and swallowed, never surfaced to the user.
func NewAuditWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Audit write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := err.(*StandardError)
	return ok && stdErr.Code == code
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
