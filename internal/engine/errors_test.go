package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestEngineError_IsMatchesByCode(t *testing.T) {
	err := NewEngineError(ErrCodeNoMatch, "no elements found for selector 'p'", nil)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatal("expected errors.Is to match ErrNoMatch")
	}
	if errors.Is(err, ErrEmptyContent) {
		t.Fatal("did not expect match with ErrEmptyContent")
	}

	wrapped := fmt.Errorf("page https://a.test: %w", err)
	if !errors.Is(wrapped, ErrNoMatch) {
		t.Fatal("expected wrapped error to match ErrNoMatch")
	}
	if CodeOf(wrapped) != ErrCodeNoMatch {
		t.Errorf("expected code %s, got %s", ErrCodeNoMatch, CodeOf(wrapped))
	}
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewEngineError(ErrCodeNetworkError, "failed to fetch", cause).WithRetry()

	if !errors.Is(err, cause) {
		t.Error("expected underlying error to be reachable")
	}
	if !err.Retryable() {
		t.Error("expected error to be retryable")
	}
	if got := err.Error(); got != "NETWORK_ERROR: failed to fetch: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCodeOf_NonEngineError(t *testing.T) {
	if code := CodeOf(errors.New("plain")); code != "" {
		t.Errorf("expected empty code, got %s", code)
	}
}
