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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Workspace errors
	ErrProjectNotFound  ErrorCode = "PROJECT_NOT_FOUND"
	ErrDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCommitConflict   ErrorCode = "COMMIT_CONFLICT"

	// Action errors
	ErrActionExecute ErrorCode = "ACTION_EXECUTE"
	ErrActionInvalid ErrorCode = "ACTION_INVALID"

	// Registration errors
	ErrFileExists        ErrorCode = "FILE_EXISTS"
	ErrAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// CodefixError represents a structured error with code and details
type CodefixError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CodefixError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CodefixError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CodefixError) Is(target error) bool {
	var targetErr *CodefixError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CodefixError with the given code and message
func New(code ErrorCode, message string) *CodefixError {
	return &CodefixError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CodefixError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CodefixError {
	return &CodefixError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CodefixError
func Wrap(err error, code ErrorCode, message string) *CodefixError {
	if err == nil {
		return nil
	}
	return &CodefixError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CodefixError {
	if err == nil {
		return nil
	}
	return &CodefixError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CodefixError) WithDetail(key string, value interface{}) *CodefixError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cfErr *CodefixError
	if errors.As(err, &cfErr) {
		return cfErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CodefixError
func GetErrorCode(err error) ErrorCode {
	var cfErr *CodefixError
	if errors.As(err, &cfErr) {
		return cfErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CodefixError
func GetErrorDetails(err error) map[string]interface{} {
	var cfErr *CodefixError
	if errors.As(err, &cfErr) {
		return cfErr.Details
	}
	return nil
}
