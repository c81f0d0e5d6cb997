package sakhi

import (
	"context"
	"errors"
	"time"
)

// RetryConfig bounds the retry behavior for upstream calls.
type RetryConfig struct {
	MaxAttempts int           // Total number of calls, including the first
	BaseDelay   time.Duration // Delay unit the backoff classes scale from
	MaxDelay    time.Duration // Ceiling for any single delay
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes fn up to cfg.MaxAttempts times. The delay between
// attempts depends on the failure: a retryable ProviderError selects its own
// backoff class (exponential, linear, or a fixed server-supplied interval);
// anything non-retryable aborts immediately.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(RetryDelay(err, attempt, cfg)):
			}
		}
	}

	return zero, lastErr
}

// RetryDelay computes the wait before the attempt following a failed one.
// attempt is 1-based.
func RetryDelay(err error, attempt int, cfg RetryConfig) time.Duration {
	base := cfg.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	delay := base
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.Backoff {
		case BackoffFixed:
			if providerErr.RetryAfter > 0 {
				delay = providerErr.RetryAfter
			}
		case BackoffLinear:
			delay = base * time.Duration(attempt)
		default:
			delay = base * time.Duration(1<<(attempt-1))
		}
	} else {
		delay = base * time.Duration(1<<(attempt-1))
	}

	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	return false
}
