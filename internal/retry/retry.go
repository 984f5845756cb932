package retry

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig describes a bounded loop with a fixed pause between attempts.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// WithRetry calls fn until it succeeds or MaxAttempts calls have failed.
// fn receives the 1-based attempt number. There is no sleep after the last attempt.
func WithRetry(ctx context.Context, config RetryConfig, fn func(attempt int) error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.Delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
