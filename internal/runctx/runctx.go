package runctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// Run identifies one crawl run
type Run struct {
	ID        string
	StartTime time.Time
}

// WithRun attaches a fresh run identity to ctx. If ctx already carries one it
// is returned unchanged.
func WithRun(ctx context.Context) context.Context {
	if _, ok := ctx.Value(runKey).(*Run); ok {
		return ctx
	}
	return context.WithValue(ctx, runKey, &Run{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
	})
}

// FromContext returns the run attached to ctx, or a placeholder with ID "unknown"
func FromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey).(*Run); ok {
		return r
	}
	return &Run{
		ID:        "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the global logger tagged with the run ID
func Logger(ctx context.Context) zerolog.Logger {
	return log.With().Str("run_id", FromContext(ctx).ID).Logger()
}

// RunError wraps an error with the ID of the run it came from
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// Wrap tags err with the run ID found in ctx. A nil err stays nil.
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: FromContext(ctx).ID,
		Err:   err,
	}
}
