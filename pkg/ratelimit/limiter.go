package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter defines the interface for pacing requests to the upstream API.
type Limiter interface {
	// Wait blocks until the next request is allowed, or until the
	// context is cancelled.
	Wait(ctx context.Context) error
	// Reset clears the limiter state.
	Reset()
}

// FixedInterval enforces a minimum interval between consecutive
// requests. It is a politeness throttle, not a correctness mechanism:
// the hard rate-limit handling lives in the retry policy.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval limiter.
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Wait blocks until the interval since the previous request has elapsed.
func (fi *FixedInterval) Wait(ctx context.Context) error {
	fi.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if !fi.last.IsZero() {
		if elapsed := now.Sub(fi.last); elapsed < fi.interval {
			sleep = fi.interval - elapsed
		}
	}
	fi.last = now.Add(sleep)
	fi.mu.Unlock()

	if sleep <= 0 {
		return nil
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset clears the last-request timestamp.
func (fi *FixedInterval) Reset() {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.last = time.Time{}
}

// Nop is a limiter that never waits. Used in tests and when the
// configured request delay is zero.
type Nop struct{}

func (Nop) Wait(ctx context.Context) error { return ctx.Err() }
func (Nop) Reset()                         {}
