package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Selection errors
	ErrInvalidSelection  ErrorCode = "INVALID_SELECTION"
	ErrUnknownCollection ErrorCode = "UNKNOWN_COLLECTION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrIO ErrorCode = "IO"
)

// HandyError represents a structured error with code and details
type HandyError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HandyError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HandyError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HandyError) Is(target error) bool {
	var targetErr *HandyError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HandyError with the given code and message
func New(code ErrorCode, message string) *HandyError {
	return &HandyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HandyError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HandyError {
	return &HandyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HandyError
func Wrap(err error, code ErrorCode, message string) *HandyError {
	if err == nil {
		return nil
	}
	return &HandyError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HandyError {
	if err == nil {
		return nil
	}
	return &HandyError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HandyError) WithDetail(key string, value interface{}) *HandyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *HandyError) WithDetails(details map[string]interface{}) *HandyError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var handyErr *HandyError
	if errors.As(err, &handyErr) {
		return handyErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HandyError
func GetErrorCode(err error) ErrorCode {
	var handyErr *HandyError
	if errors.As(err, &handyErr) {
		return handyErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HandyError
func GetErrorDetails(err error) map[string]interface{} {
	var handyErr *HandyError
	if errors.As(err, &handyErr) {
		return handyErr.Details
	}
	return nil
}
