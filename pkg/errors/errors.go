package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures returned by the client
type ErrorType string

const (
	// ErrorTypePrecondition means the operation needs a login (or credentials) first
	ErrorTypePrecondition ErrorType = "precondition"
	// ErrorTypeInvalidArgument means the caller supplied unusable input
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeTransport covers network failures and cancellation
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeUnexpectedStatus means the backend answered with a non-2xx status
	ErrorTypeUnexpectedStatus ErrorType = "unexpected_status"
	// ErrorTypeProtocol means a 2xx response did not have the expected shape
	ErrorTypeProtocol ErrorType = "protocol"
	ErrorTypeParsing  ErrorType = "parsing"
	// ErrorTypeNotFound means a lookup (user search, media info) matched nothing
	ErrorTypeNotFound ErrorType = "not_found"
)

// Error represents an API error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	// Body holds the raw response body for unexpected_status errors
	Body  string
	Cause error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given type
func New(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given type around cause
func Wrap(t ErrorType, cause error, msg string) *Error {
	m := msg
	if cause != nil {
		m = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Type: t, Message: m, Cause: cause}
}

// Precondition reports that an operation was attempted in the wrong session state.
func Precondition(msg string) *Error {
	return &Error{Type: ErrorTypePrecondition, Message: msg}
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return New(ErrorTypeInvalidArgument, format, args...)
}

func Protocol(format string, args ...interface{}) *Error {
	return New(ErrorTypeProtocol, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(ErrorTypeNotFound, format, args...)
}

// UnexpectedStatus keeps the status code and the raw body
func UnexpectedStatus(code int, body string) *Error {
	return &Error{
		Type:    ErrorTypeUnexpectedStatus,
		Message: fmt.Sprintf("unexpected response status %d", code),
		Code:    code,
		Body:    body,
	}
}

// TypeOf returns the ErrorType of err, or "" when err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// Is reports whether err is an *Error of type t
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

func IsPrecondition(err error) bool {
	return Is(err, ErrorTypePrecondition)
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeTransport:
		return true
	default:
		return false
	}
}

// IsRetryableError reports whether err is worth another attempt on an idempotent request
func IsRetryableError(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	if e.Type == ErrorTypeUnexpectedStatus {
		return IsRetryableStatusCode(e.Code)
	}
	return IsRetryable(e.Type)
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 400, 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
