// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Auth errors
	ErrUnauthorized       = &Error{Code: "UNAUTHORIZED", Message: "authentication required or token rejected"}
	ErrForbidden          = &Error{Code: "FORBIDDEN", Message: "owner access required"}
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Message: "invalid access code"}
	ErrTokenMissing       = &Error{Code: "TOKEN_MISSING", Message: "no stored token"}

	// Backend errors
	ErrAPIFailed = &Error{Code: "API_FAILED", Message: "backend request failed"}
	ErrNoData    = &Error{Code: "NO_DATA", Message: "no data available"}

	// Data errors
	ErrSymbolUnknown = &Error{Code: "SYMBOL_UNKNOWN", Message: "symbol not served by backend"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
