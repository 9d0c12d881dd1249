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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Rule errors
	ErrMalformedRule     ErrorCode = "MALFORMED_RULE"
	ErrMissingConfigRoot ErrorCode = "MISSING_CONFIG_ROOT"

	// Pipeline errors
	ErrIO         ErrorCode = "IO_FAILURE"
	ErrConversion ErrorCode = "CONVERSION_FAILURE"
)

// Detail keys shared by packages that attach context to errors
const (
	DetailUnit  = "unit"
	DetailPath  = "path"
	DetailLine  = "line"
	DetailText  = "text"
	DetailStage = "stage"
)

// TextilizeError represents a structured error with code and details
type TextilizeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TextilizeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TextilizeError) Unwrap() error {
	return e.Wrapped
}

// Is matches any TextilizeError carrying the same code
func (e *TextilizeError) Is(target error) bool {
	var targetErr *TextilizeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TextilizeError with the given code and message
func New(code ErrorCode, message string) *TextilizeError {
	return &TextilizeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TextilizeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TextilizeError {
	return &TextilizeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TextilizeError
func Wrap(err error, code ErrorCode, message string) *TextilizeError {
	if err == nil {
		return nil
	}
	return &TextilizeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TextilizeError {
	if err == nil {
		return nil
	}
	return &TextilizeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TextilizeError) WithDetail(key string, value interface{}) *TextilizeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *TextilizeError) WithDetails(details map[string]interface{}) *TextilizeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code anywhere in its chain
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var tErr *TextilizeError
		if !errors.As(err, &tErr) {
			return false
		}
		if tErr.Code == code {
			return true
		}
		err = tErr.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost error code, or ErrUnknown if not a TextilizeError
func GetErrorCode(err error) ErrorCode {
	var tErr *TextilizeError
	if errors.As(err, &tErr) {
		return tErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TextilizeError
func GetErrorDetails(err error) map[string]interface{} {
	var tErr *TextilizeError
	if errors.As(err, &tErr) {
		return tErr.Details
	}
	return nil
}

// RootCode returns the innermost error code in the chain. Pipeline errors wrap
// rule and I/O errors, and the innermost code names what actually went wrong.
func RootCode(err error) ErrorCode {
	code := ErrUnknown
	for err != nil {
		var tErr *TextilizeError
		if !errors.As(err, &tErr) {
			break
		}
		code = tErr.Code
		err = tErr.Wrapped
	}
	return code
}
