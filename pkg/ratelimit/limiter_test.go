package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFixedIntervalFirstCallDoesNotWait(t *testing.T) {
	fi := NewFixedInterval(time.Second)

	start := time.Now()
	if err := fi.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first call should not block, waited %v", elapsed)
	}
}

func TestFixedIntervalSpacesCalls(t *testing.T) {
	fi := NewFixedInterval(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := fi.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three calls at 50ms spacing should take >= 100ms, took %v", elapsed)
	}
}

func TestFixedIntervalReset(t *testing.T) {
	fi := NewFixedInterval(time.Second)
	if err := fi.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fi.Reset()

	start := time.Now()
	if err := fi.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("call after reset should not block, waited %v", elapsed)
	}
}

func TestFixedIntervalContextCancellation(t *testing.T) {
	fi := NewFixedInterval(time.Minute)
	if err := fi.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := fi.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestNopNeverWaits(t *testing.T) {
	var limiter Limiter = Nop{}

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Nop should never block, took %v", elapsed)
	}
	limiter.Reset()
}
