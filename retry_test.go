package sakhi

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_Success(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
	}

	callCount := 0
	result, err := WithRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}

	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestWithRetry_RetryableError(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
	}

	callCount := 0
	result, err := WithRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", &ProviderError{Message: "rate limited", Retryable: true, Backoff: BackoffExponential}
		}
		return "success", nil
	})

	if err != nil {
		t.Fatalf("Expected no error after retries, got: %v", err)
	}

	if result != "success" {
		t.Errorf("Expected 'success', got %q", result)
	}

	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_NonRetryableError(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
	}

	callCount := 0
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", &ProviderError{Message: "invalid API key", Retryable: false}
	})

	if err == nil {
		t.Fatal("Expected error for non-retryable error")
	}

	if callCount != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", callCount)
	}
}

func TestWithRetry_AttemptsExhausted(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
	}

	callCount := 0
	_, err := WithRetry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if err == nil {
		t.Fatal("Expected error after attempts exhausted")
	}

	// MaxAttempts counts total calls, including the first.
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second, // Long delay
		MaxDelay:    10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := WithRetry(ctx, cfg, func() (string, error) {
		return "", &ProviderError{Message: "rate limited", Retryable: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

func TestRetryDelay_Exponential(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}
	err := &ProviderError{Retryable: true, Backoff: BackoffExponential}

	var prev time.Duration
	expected := []time.Duration{100, 200, 400, 800}
	for i, want := range expected {
		got := RetryDelay(err, i+1, cfg)
		if got != want*time.Millisecond {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want*time.Millisecond, got)
		}
		if got < prev {
			t.Errorf("attempt %d: delay decreased from %v to %v", i+1, prev, got)
		}
		prev = got
	}
}

func TestRetryDelay_Linear(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}
	err := &ProviderError{Retryable: true, Backoff: BackoffLinear}

	expected := []time.Duration{100, 200, 300}
	for i, want := range expected {
		got := RetryDelay(err, i+1, cfg)
		if got != want*time.Millisecond {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want*time.Millisecond, got)
		}
	}
}

func TestRetryDelay_FixedRetryAfter(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}
	err := &ProviderError{Retryable: true, Backoff: BackoffFixed, RetryAfter: 2 * time.Second}

	for attempt := 1; attempt <= 3; attempt++ {
		if got := RetryDelay(err, attempt, cfg); got != 2*time.Second {
			t.Errorf("attempt %d: expected 2s, got %v", attempt, got)
		}
	}
}

func TestRetryDelay_MaxDelayCap(t *testing.T) {
	cfg := RetryConfig{BaseDelay: 1 * time.Second, MaxDelay: 3 * time.Second}
	err := &ProviderError{Retryable: true, Backoff: BackoffExponential}

	if got := RetryDelay(err, 5, cfg); got != 3*time.Second {
		t.Errorf("Expected cap at 3s, got %v", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retryable provider error", &ProviderError{Retryable: true}, true},
		{"non-retryable provider error", &ProviderError{Retryable: false}, false},
		{"generic error", errors.New("some error"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"wrapped retryable", &StorageError{Cause: &ProviderError{Retryable: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.expected {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("Expected MaxAttempts 3, got %d", cfg.MaxAttempts)
	}

	if cfg.BaseDelay != 1*time.Second {
		t.Errorf("Expected BaseDelay 1s, got %v", cfg.BaseDelay)
	}

	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("Expected MaxDelay 30s, got %v", cfg.MaxDelay)
	}
}
