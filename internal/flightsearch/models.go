// Package flightsearch provides cached, resilient access to external
// flight-offer search providers.
package flightsearch

import "errors"

// Sentinel errors for flight search operations.
var (
	// ErrProviderUnavailable indicates the search provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("flight search provider unavailable")
	// ErrRateLimitExceeded indicates the provider API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidRequest indicates the search request was rejected by the provider.
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrUnauthorized indicates the provider credentials were rejected.
	ErrUnauthorized = errors.New("provider credentials rejected")
)

// Error provides detailed error information from a search provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
