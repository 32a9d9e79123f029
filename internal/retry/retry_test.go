package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tubecast/internal/retry"
	"tubecast/internal/services"
)

func recordingSleeper(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoSucceedsWithoutRetry(t *testing.T) {
	var delays []time.Duration
	exec := retry.New(nil, retry.WithSleeper(recordingSleeper(&delays)))

	calls := 0
	err := exec.Do(context.Background(), "research", func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(delays) != 0 {
		t.Fatalf("expected no sleeps, got %v", delays)
	}
}

func TestDoRetriesTransientWithExponentialBackoff(t *testing.T) {
	var delays []time.Duration
	exec := retry.New(nil, retry.WithSleeper(recordingSleeper(&delays)))

	calls := 0
	transient := services.Wrap(services.ErrTransient, "test", "op", "boom", nil)
	err := exec.Do(context.Background(), "script", func(context.Context) error {
		calls++
		if calls < 4 {
			return transient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 calls, got %d", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), delays)
	}
	for i, d := range want {
		if delays[i] != d {
			t.Fatalf("delay %d: expected %v, got %v", i, d, delays[i])
		}
	}
}

func TestDoExhaustsTransientAfterThreeRetries(t *testing.T) {
	var delays []time.Duration
	exec := retry.New(nil, retry.WithSleeper(recordingSleeper(&delays)))

	calls := 0
	transient := services.Wrap(services.ErrTransient, "test", "op", "still broken", nil)
	err := exec.Do(context.Background(), "audio", func(context.Context) error {
		calls++
		return transient
	})
	if calls != 4 {
		t.Fatalf("expected 4 attempts (3 retries), got %d", calls)
	}
	var stageErr *retry.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != "audio" || stageErr.Attempts != 4 {
		t.Fatalf("unexpected StageError: %+v", stageErr)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatal("StageError should wrap the underlying cause")
	}
	if len(delays) != 3 {
		t.Fatalf("expected 3 sleeps, got %v", delays)
	}
}

func TestDoDoesNotRetryPermanentFailures(t *testing.T) {
	var delays []time.Duration
	exec := retry.New(nil, retry.WithSleeper(recordingSleeper(&delays)))

	calls := 0
	permanent := services.Wrap(services.ErrPermanent, "test", "op", "bad request", nil)
	err := exec.Do(context.Background(), "seo", func(context.Context) error {
		calls++
		return permanent
	})
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
	if !errors.Is(err, services.ErrPermanent) {
		t.Fatalf("expected the permanent error unchanged, got %v", err)
	}
	var stageErr *retry.StageError
	if errors.As(err, &stageErr) {
		t.Fatal("permanent failures should not be wrapped in StageError")
	}
	if len(delays) != 0 {
		t.Fatalf("expected no sleeps, got %v", delays)
	}
}

func TestDoStopsWhenSleepIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exec := retry.New(nil, retry.WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	calls := 0
	transient := services.Wrap(services.ErrTransient, "test", "op", "boom", nil)
	err := exec.Do(ctx, "research", func(context.Context) error {
		calls++
		return transient
	})
	if calls != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
