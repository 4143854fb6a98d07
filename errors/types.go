package errors

import (
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigWrite   ErrorCode = "CONFIG_WRITE"

	// Transport errors
	ErrCodeAPIRequest      ErrorCode = "API_REQUEST"
	ErrCodeAPIConnection   ErrorCode = "API_CONNECTION"
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Store errors
	ErrCodeStoreLock  ErrorCode = "STORE_LOCK"
	ErrCodeStoreWrite ErrorCode = "STORE_WRITE"

	// General errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// OverlapError represents a structured error with context
type OverlapError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *OverlapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OverlapError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *OverlapError) WithDetail(key string, value interface{}) *OverlapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new OverlapError
func New(code ErrorCode, message string) *OverlapError {
	return &OverlapError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an OverlapError
func Wrap(err error, code ErrorCode, message string) *OverlapError {
	return &OverlapError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error carries a specific error code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	overlapErr, ok := err.(*OverlapError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return overlapErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	overlapErr, ok := err.(*OverlapError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return overlapErr.Code
}
