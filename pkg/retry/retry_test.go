package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "f1scraper/pkg/errors"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		RateLimitBackoff: &ExponentialBackoff{
			BaseDelay:  2 * time.Millisecond,
			MaxDelay:   time.Second,
			Multiplier: 2.0,
		},
		TransientBackoff: &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:          DefaultRetryIf,
		Context:          context.Background(),
	}
}

func rateLimitErr() error {
	return &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "rate limit exceeded", Code: 429}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt doubles"},
		{3, 400 * time.Millisecond, "Third attempt doubles again"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestConstantBackoff(t *testing.T) {
	backoff := &ConstantBackoff{Delay: 50 * time.Millisecond}

	for attempt := 1; attempt <= 4; attempt++ {
		if delay := backoff.NextDelay(attempt); delay != 50*time.Millisecond {
			t.Errorf("Attempt %d: expected constant 50ms, got %v", attempt, delay)
		}
	}
	if delay := backoff.NextDelay(0); delay != 0 {
		t.Errorf("Expected zero delay for attempt 0, got %v", delay)
	}
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return &errs.Error{Type: errs.ErrorTypeServerError, Code: 500}
		}
		return nil
	}

	if err := Do(op, testConfig(5)); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "connection refused"}
	}

	err := Do(op, testConfig(3))
	if err == nil {
		t.Error("Expected error when retry budget exhausted")
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 attempts (total budget), got %d", attempts)
	}
}

func TestRetrySchemaErrorNotRetried(t *testing.T) {
	attempts := 0
	schemaErr := errs.Schema("unexpected schema: missing MRData")

	op := func() error {
		attempts++
		return schemaErr
	}

	err := Do(op, testConfig(5))
	if !errors.Is(err, schemaErr) {
		t.Errorf("Expected schema error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt (no retry for schema error), got %d", attempts)
	}
}

// Two 429 responses followed by success: three requests total, the
// second backoff exactly double the first.
func TestRateLimitBackoffDoubles(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts <= 2 {
			return rateLimitErr()
		}
		return nil
	}

	var delays []time.Duration
	cfg := testConfig(5)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	}

	if err := Do(op, cfg); err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", attempts)
	}
	if len(delays) != 2 {
		t.Fatalf("Expected 2 backoff waits, got %d", len(delays))
	}
	if delays[1] != 2*delays[0] {
		t.Errorf("Expected second backoff (%v) to double the first (%v)", delays[1], delays[0])
	}
}

// A non-429 failure between 429s resets the rate-limit streak.
func TestRateLimitStreakResets(t *testing.T) {
	responses := []error{
		rateLimitErr(),
		&errs.Error{Type: errs.ErrorTypeServerError, Code: 503},
		rateLimitErr(),
		nil,
	}

	attempts := 0
	op := func() error {
		err := responses[attempts]
		attempts++
		return err
	}

	var delays []time.Duration
	cfg := testConfig(10)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		delays = append(delays, delay)
	}

	if err := Do(op, cfg); err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	// First and third waits are rate-limit backoffs; both start the
	// schedule over at the base delay.
	if delays[0] != delays[2] {
		t.Errorf("Expected rate-limit streak to reset: first wait %v, third wait %v", delays[0], delays[2])
	}
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	op := func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &errs.Error{Type: errs.ErrorTypeNetwork}
	}

	cfg := testConfig(10)
	cfg.Context = ctx
	cfg.TransientBackoff = &ConstantBackoff{Delay: 100 * time.Millisecond}

	if err := Do(op, cfg); err == nil {
		t.Error("Expected error when context cancelled")
	}
	if attempts > 3 {
		t.Errorf("Expected at most 3 attempts before cancellation, got %d", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", &errs.Error{Type: errs.ErrorTypeServerError, Code: 502}
		}
		return "success", nil
	}

	result, err := DoWithResult(op, testConfig(3))
	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got '%s'", result)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}
