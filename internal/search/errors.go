package search

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingAPIKey is returned when a required API key is not provided
var ErrMissingAPIKey = errors.New("search API key is required")

// StatusError is a non-2xx response from the search service. The client uses
// the code to decide whether and how fast to retry.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search service returned status %d: %s", e.StatusCode, e.Body)
}

// ServiceUnavailableError is returned once retries are exhausted. It keeps
// the last status code so callers can distinguish rate limiting from outages.
type ServiceUnavailableError struct {
	StatusCode int   // Last observed status, 0 for connection failures
	Err        error // Last attempt's error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("search service unavailable after retries (last status %d): %v", e.StatusCode, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the service was refusing requests with 429
// rather than failing outright.
func (e *ServiceUnavailableError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
