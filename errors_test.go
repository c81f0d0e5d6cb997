package sakhi

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "text", Message: "must not be empty"}

	if !strings.Contains(err.Error(), "text") {
		t.Errorf("Expected field name in message, got %q", err.Error())
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProviderError{Message: "inference call failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected cause in message, got %q", err.Error())
	}
}

func TestProviderError_NoCause(t *testing.T) {
	err := &ProviderError{Message: "rate limited"}

	if err.Error() != "provider error: rate limited" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := &StorageError{Message: "appending turn", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestServiceUnavailableError(t *testing.T) {
	cause := &ProviderError{Message: "rate limited", Retryable: true}
	err := &ServiceUnavailableError{Cause: cause}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Error("Expected errors.As to reach the provider error")
	}

	if !strings.Contains(err.Error(), "service unavailable") {
		t.Errorf("Unexpected message: %q", err.Error())
	}

	bare := &ServiceUnavailableError{}
	if bare.Error() != "service unavailable" {
		t.Errorf("Unexpected bare message: %q", bare.Error())
	}
}
