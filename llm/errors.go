package llm

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a classified provider failure.
type ErrorKind string

const (
	ErrorKindAuthentication ErrorKind = "authentication_error"
	ErrorKindRateLimit      ErrorKind = "rate_limit_error"
	ErrorKindInvalidRequest ErrorKind = "invalid_request_error"
	ErrorKindAPI            ErrorKind = "api_error"
	ErrorKindTimeout        ErrorKind = "timeout_error"
	ErrorKindNetwork        ErrorKind = "network_error"
	ErrorKindUnknown        ErrorKind = "unknown_error"
)

// Error is the provider-neutral error carrier. Every failure surfaced past
// an adapter boundary is wrapped into this type with a definite Kind and
// Retryable flag.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Provider   string
	Retryable  bool
	Cause      error // Original provider-specific error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Provider != "" {
		prefix = e.Provider + " " + prefix
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewAuthenticationError creates a non-retryable authentication error.
func NewAuthenticationError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindAuthentication, Message: message, StatusCode: 401, Provider: provider, Retryable: false, Cause: cause}
}

// NewRateLimitError creates a retryable rate limit error.
func NewRateLimitError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindRateLimit, Message: message, StatusCode: 429, Provider: provider, Retryable: true, Cause: cause}
}

// NewInvalidRequestError creates a non-retryable invalid request error.
func NewInvalidRequestError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindInvalidRequest, Message: message, StatusCode: 400, Provider: provider, Retryable: false, Cause: cause}
}

// NewAPIError creates an upstream API error. It is retryable only when the
// status indicates a 5xx-equivalent upstream fault.
func NewAPIError(provider, message string, statusCode int, cause error) *Error {
	return &Error{Kind: ErrorKindAPI, Message: message, StatusCode: statusCode, Provider: provider, Retryable: statusCode >= 500, Cause: cause}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindTimeout, Message: message, Provider: provider, Retryable: true, Cause: cause}
}

// NewNetworkError creates a retryable network error.
func NewNetworkError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindNetwork, Message: message, Provider: provider, Retryable: true, Cause: cause}
}

// NewUnknownError creates the default carrier for unclassified raw errors.
// It is not retryable, to avoid infinite retry loops on unexpected faults.
func NewUnknownError(provider, message string, cause error) *Error {
	return &Error{Kind: ErrorKindUnknown, Message: message, Provider: provider, Retryable: false, Cause: cause}
}

// FromStatus classifies an HTTP status code into the taxonomy:
// 401 authentication, 429 rate limit, 400 invalid request, >=500 api_error
// (retryable), anything else a non-retryable api_error.
func FromStatus(provider string, statusCode int, message string, cause error) *Error {
	switch {
	case statusCode == 401 || statusCode == 403:
		return NewAuthenticationError(provider, message, cause)
	case statusCode == 429:
		return NewRateLimitError(provider, message, cause)
	case statusCode == 400:
		return NewInvalidRequestError(provider, message, cause)
	case statusCode == 408:
		return NewTimeoutError(provider, message, cause)
	default:
		return NewAPIError(provider, message, statusCode, cause)
	}
}

// AsError extracts the structured carrier from an error chain.
func AsError(err error) (*Error, bool) {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr, true
	}
	return nil, false
}

// IsRetryable reports whether a classified error is retryable.
// Unstructured errors are not considered retryable here; the retry engine
// applies its own predicate for those.
func IsRetryable(err error) bool {
	if llmErr, ok := AsError(err); ok {
		return llmErr.Retryable
	}
	return false
}

// KindOf returns the error kind, or ErrorKindUnknown for unstructured errors.
func KindOf(err error) ErrorKind {
	if llmErr, ok := AsError(err); ok {
		return llmErr.Kind
	}
	return ErrorKindUnknown
}
