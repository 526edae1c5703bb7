package bestbuy

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a non-2xx response from the catalog API, classified for the
// engine's retry policy.
type APIError struct {
	StatusCode int
	Body       string
	// RetryAfter is the pause the provider asked for on a throttled call,
	// zero when the provider gave none.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Body)
}

// RateLimited reports whether the provider signaled throttling.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// Retryable reports whether the call may succeed on a later attempt.
func (e *APIError) Retryable() bool {
	return e.RateLimited() ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode >= http.StatusInternalServerError
}

// Retryable reports whether err represents a transient failure: a retryable
// API status or a transport-level error. Authentication and request errors
// are terminal.
func Retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// RetryAfter returns the provider-indicated pause for a throttled call, or
// zero if err carries none.
func RetryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

// TransportError is a network-level failure: connection, DNS, or timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "catalog transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
