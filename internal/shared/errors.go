package shared

import (
	"fmt"
	"net/http"
)

const (
	rateLimitedMessage    = "Rate limit exceeded. Please try again later."
	quotaExhaustedMessage = "AI credits depleted. Please add credits to continue."
)

// ValidationError is returned when caller input is rejected before any state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError reports a failed call to a generator or an upstream gateway.
// StatusCode is zero when the request never got a response.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

// NewStatusError builds a TransportError for a non-2xx response, using the
// dedicated copy for rate limiting and exhausted credits.
func NewStatusError(status int, message string) *TransportError {
	switch status {
	case http.StatusTooManyRequests:
		message = rateLimitedMessage
	case http.StatusPaymentRequired:
		message = quotaExhaustedMessage
	default:
		if message == "" {
			message = fmt.Sprintf("AI gateway error: %d", status)
		}
	}
	return &TransportError{StatusCode: status, Message: message}
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("AI gateway error: %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRateLimited reports whether the upstream answered 429.
func (e *TransportError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsQuotaExhausted reports whether the upstream answered 402.
func (e *TransportError) IsQuotaExhausted() bool {
	return e.StatusCode == http.StatusPaymentRequired
}

// ParseError is returned when a generator reply is not the expected JSON,
// even after code fences are stripped.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse %s", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }
