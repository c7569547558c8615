package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures from the upstream API.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents an upstream API error with type information.
type Error struct {
	Type    ErrorType
	Message string
	Code    int // HTTP status code, 0 for transport-level failures
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// IsRetryable reports whether an error type should be retried. Every
// failing request is retried except a schema/parse mismatch, which will
// not improve on a second attempt.
func IsRetryable(errorType ErrorType) bool {
	return errorType != ErrorTypeParsing
}

// IsRateLimit reports whether err is a rate-limit signal (HTTP 429).
func IsRateLimit(err error) bool {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeRateLimit
	}
	return false
}

// TypeOf returns the error type of err, or ErrorTypeUnknown when err
// does not carry one.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// Schema builds a parsing error for a response that is missing a
// required key path.
func Schema(format string, args ...interface{}) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: fmt.Sprintf(format, args...),
	}
}
