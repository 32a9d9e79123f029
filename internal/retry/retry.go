package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tubecast/internal/logging"
	"tubecast/internal/services"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
)

// StageError reports a stage operation that failed after exhausting retries.
type StageError struct {
	Stage    string
	Attempts int
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed after %d attempts: %v", e.Stage, e.Attempts, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Executor retries an operation with exponential backoff. The zero value is
// not usable; construct with New.
type Executor struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	sleep      func(context.Context, time.Duration) error
}

// Option customizes an Executor.
type Option func(*Executor)

// WithMaxRetries overrides the retry budget (defaults to 3 retries after
// the initial attempt).
func WithMaxRetries(retries int) Option {
	return func(e *Executor) {
		if retries > 0 {
			e.maxRetries = retries
		}
	}
}

// WithBaseDelay overrides the backoff unit (defaults to one second; the delay
// before retry n is baseDelay * 2^n).
func WithBaseDelay(delay time.Duration) Option {
	return func(e *Executor) {
		if delay >= 0 {
			e.baseDelay = delay
		}
	}
}

// WithSleeper overrides how delays are performed (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Executor) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// New constructs an Executor.
func New(logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		logger:     logger,
		sleep:      sleepContext,
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do runs the operation, retrying transient failures with exponential
// backoff. Permanent failures propagate unchanged on the first occurrence.
// Exhausted retries return a *StageError naming the stage.
func (e *Executor) Do(ctx context.Context, stage string, op func(context.Context) error) error {
	maxAttempts := e.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		e.logger.Debug("stage attempt started",
			logging.String(logging.FieldStage, stage),
			logging.Int("attempt", attempt),
		)

		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 1 {
				e.logger.Info("stage attempt succeeded after retry",
					logging.String(logging.FieldStage, stage),
					logging.Int("attempt", attempt),
				)
			}
			return nil
		}

		if !services.IsTransient(lastErr) {
			e.logger.Warn("stage attempt failed permanently",
				logging.String(logging.FieldStage, stage),
				logging.Int("attempt", attempt),
				logging.Error(lastErr),
			)
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		delay := e.backoffDelay(attempt)
		e.logger.Warn("stage attempt failed, retrying",
			logging.String(logging.FieldStage, stage),
			logging.Int("attempt", attempt),
			logging.Duration("retry_delay", delay),
			logging.Error(lastErr),
		)
		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
	}

	e.logger.Error("stage retries exhausted",
		logging.String(logging.FieldStage, stage),
		logging.Int("attempts", maxAttempts),
		logging.Error(lastErr),
	)
	return &StageError{Stage: stage, Attempts: maxAttempts, Err: lastErr}
}

// backoffDelay returns baseDelay * 2^attempt: 2s, 4s, 8s with the defaults.
func (e *Executor) backoffDelay(attempt int) time.Duration {
	delay := e.baseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
