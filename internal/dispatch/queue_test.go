package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tubecast/internal/dispatch"
)

func TestSubmitUpToCapacityDoesNotBlock(t *testing.T) {
	const capacity = 3
	q := dispatch.NewQueue(capacity)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < capacity; i++ {
			if err := q.Submit(dispatch.Ticket{JobID: int64(i + 1)}); err != nil {
				t.Errorf("Submit %d failed: %v", i+1, err)
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submits up to capacity should not block")
	}
	if q.Len() != capacity {
		t.Fatalf("expected %d queued tickets, got %d", capacity, q.Len())
	}
}

func TestSubmitBlocksWhenFullUntilTake(t *testing.T) {
	q := dispatch.NewQueue(1)
	if err := q.Submit(dispatch.Ticket{JobID: 1}); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	unblocked := make(chan error, 1)
	go func() {
		unblocked <- q.Submit(dispatch.Ticket{JobID: 2})
	}()

	select {
	case err := <-unblocked:
		t.Fatalf("Submit on a full queue returned early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	ticket, err := q.Take(context.Background())
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if ticket.JobID != 1 {
		t.Fatalf("expected ticket 1 first, got %d", ticket.JobID)
	}

	select {
	case err := <-unblocked:
		if err != nil {
			t.Fatalf("blocked Submit failed after Take: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Submit should unblock once capacity frees up")
	}
}

func TestTakePreservesFIFOOrder(t *testing.T) {
	q := dispatch.NewQueue(5)
	for i := int64(1); i <= 5; i++ {
		if err := q.Submit(dispatch.Ticket{JobID: i, Resume: i%2 == 0}); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}
	for i := int64(1); i <= 5; i++ {
		ticket, err := q.Take(context.Background())
		if err != nil {
			t.Fatalf("Take failed: %v", err)
		}
		if ticket.JobID != i {
			t.Fatalf("expected ticket %d, got %d", i, ticket.JobID)
		}
		if ticket.Resume != (i%2 == 0) {
			t.Fatalf("ticket %d lost its resume flag", i)
		}
	}
}

func TestTakeHonorsContextCancellation(t *testing.T) {
	q := dispatch.NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan error, 1)
	go func() {
		_, err := q.Take(ctx)
		got <- err
	}()

	cancel()
	select {
	case err := <-got:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Take should return when the context is cancelled")
	}
}

func TestCloseRejectsSubmitButDrainsQueued(t *testing.T) {
	q := dispatch.NewQueue(2)
	if err := q.Submit(dispatch.Ticket{JobID: 7}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	q.Close()
	q.Close() // idempotent

	if err := q.Submit(dispatch.Ticket{JobID: 8}); !errors.Is(err, dispatch.ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}

	ticket, err := q.Take(context.Background())
	if err != nil {
		t.Fatalf("Take of queued ticket after Close failed: %v", err)
	}
	if ticket.JobID != 7 {
		t.Fatalf("expected ticket 7, got %d", ticket.JobID)
	}

	if _, err := q.Take(context.Background()); !errors.Is(err, dispatch.ErrClosed) {
		t.Fatalf("expected ErrClosed once drained, got %v", err)
	}
}
