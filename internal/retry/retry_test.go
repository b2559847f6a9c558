package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/law-makers/scrape/internal/engine"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestWithRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return engine.NewEngineError(engine.ErrCodeNetworkError, "flaky", nil).WithRetry()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(5), func() error {
		calls++
		return engine.NewEngineError(engine.ErrCodeHTTPError, "HTTP 404", nil)
	})
	if !errors.Is(err, engine.ErrHTTP) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		return engine.NewEngineError(engine.ErrCodeRenderError, "crash", nil).WithRetry()
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, engine.ErrRender) {
		t.Errorf("expected wrapped render error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_SingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	want := engine.NewEngineError(engine.ErrCodeNetworkError, "down", nil).WithRetry()
	err := WithRetry(context.Background(), FromAttempts(0), func() error { return want })
	if err != want {
		t.Fatalf("expected original error, got %v", err)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, InitialBackoff: time.Hour, MaxBackoff: time.Hour, Multiplier: 1}

	calls := 0
	go cancel()
	err := WithRetry(ctx, cfg, func() error {
		calls++
		return engine.NewEngineError(engine.ErrCodeNetworkError, "down", nil).WithRetry()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	cfg := DefaultConfig()
	if got := calculateBackoff(0, cfg); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
	if got := calculateBackoff(2, cfg); got != 4*time.Second {
		t.Errorf("expected 4s, got %v", got)
	}
	if got := calculateBackoff(10, cfg); got != 30*time.Second {
		t.Errorf("expected cap of 30s, got %v", got)
	}
}
