package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "f1scraper/pkg/errors"
	"f1scraper/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying.
type Operation func() error

// OperationWithResult is a function that returns a result and might need retrying.
type OperationWithResult[T any] func() (T, error)

// Config holds retry configuration.
//
// Two backoff schedules are kept: rate-limit responses (HTTP 429) walk
// the exponential schedule, doubling on each consecutive 429 within the
// same call, while every other retryable failure waits the fixed
// transient delay. A non-429 failure resets the rate-limit streak.
type Config struct {
	// MaxAttempts is the total request budget, first attempt included.
	MaxAttempts int
	// RateLimitBackoff schedules waits after consecutive 429 responses.
	RateLimitBackoff BackoffStrategy
	// TransientBackoff schedules waits after any other retryable failure.
	TransientBackoff BackoffStrategy
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// OnRetry is called before each retry wait.
	OnRetry func(attempt int, err error, delay time.Duration)
	// Context for cancellation.
	Context context.Context
	// Logger for retry attempts.
	Logger logger.Logger
}

// DefaultConfig returns a retry configuration with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		RateLimitBackoff: &ExponentialBackoff{
			BaseDelay:  2 * time.Second,
			MaxDelay:   5 * time.Minute,
			Multiplier: 2.0,
		},
		TransientBackoff: &ConstantBackoff{Delay: 2 * time.Second},
		RetryIf:          DefaultRetryIf,
		Context:          context.Background(),
		Logger:           logger.GetLogger(),
	}
}

// DefaultRetryIf is the default retry predicate.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return errs.IsRetryable(errs.TypeOf(err))
}

// Do executes an operation with retry logic.
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rateLimitStreak := 0

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if !cfg.RetryIf(err) {
			if cfg.Logger != nil {
				cfg.Logger.DebugWithFields("error is not retryable", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return err
		}

		if attempt >= cfg.MaxAttempts {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("retry budget exhausted", map[string]interface{}{
					"attempts":   attempt,
					"last_error": err.Error(),
				})
			}
			return fmt.Errorf("retry budget (%d attempts) exhausted: %w", cfg.MaxAttempts, err)
		}

		var delay time.Duration
		if errs.IsRateLimit(err) {
			rateLimitStreak++
			delay = cfg.RateLimitBackoff.NextDelay(rateLimitStreak)
		} else {
			rateLimitStreak = 0
			delay = cfg.TransientBackoff.NextDelay(attempt)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying request", map[string]interface{}{
				"attempt":      attempt,
				"error":        err.Error(),
				"delay_ms":     delay.Milliseconds(),
				"max_attempts": cfg.MaxAttempts,
			})
		}

		if err := Wait(cfg.Context, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic.
func DoWithResult[T any](op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, cfg)

	return result, err
}
