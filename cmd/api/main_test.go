package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"phonebook_backend/platform/logger"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), logger.Discard(), "flaky", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryReturnsLastError(t *testing.T) {
	cause := errors.New("still down")
	err := withRetry(context.Background(), logger.Discard(), "db", 2, time.Millisecond, func() error {
		return cause
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected last error to be wrapped, got %v", err)
	}
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, logger.Discard(), "db", 5, time.Millisecond, func() error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Fatalf("expected cancellation before any call, got %v after %d calls", err, calls)
	}
}
