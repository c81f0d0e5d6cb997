package sakhi

import (
	"fmt"
	"time"
)

// BackoffClass selects how the retry engine spaces repeated attempts for a
// given failure.
type BackoffClass int

const (
	// BackoffExponential doubles the delay each attempt (rate limiting).
	BackoffExponential BackoffClass = iota
	// BackoffLinear grows the delay by the base each attempt (timeouts,
	// transient server errors).
	BackoffLinear
	// BackoffFixed waits a fixed interval, typically taken from a
	// Retry-After header (model warming up).
	BackoffFixed
)

// ValidationError rejects a request before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ProviderError indicates an upstream service failure (translation or
// completion endpoint). Retryable failures carry the backoff class the
// retry engine should apply.
type ProviderError struct {
	Message    string
	Cause      error
	Retryable  bool
	Backoff    BackoffClass
	RetryAfter time.Duration // used with BackoffFixed when the server told us how long to wait
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// StorageError indicates the history store itself failed. An empty history
// is never a StorageError.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error: %s", e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// ServiceUnavailableError is returned when the completion provider is still
// failing after all retries. The caller should show a generic "try again
// later" message, never the raw provider error.
type ServiceUnavailableError struct {
	Cause error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service unavailable: %v", e.Cause)
	}
	return "service unavailable"
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Cause
}
