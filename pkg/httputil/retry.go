package httputil

import (
	"context"
	"errors"
	"time"
)

// Retry defaults tuned for directory fetches. Ring directories are small
// documents, so a failure either clears quickly or not at all; short
// initial delays keep the CLI responsive.
const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// RetryableError wraps an error to indicate the operation should be tried
// again. RetryAfter, when set, replaces the backoff delay for the next
// wait; [Fetch] fills it from a 429 Retry-After header.
type RetryableError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt
// unless the error carries its own RetryAfter.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var r *RetryableError
		if !errors.As(err, &r) {
			return err
		}

		if i < attempts-1 {
			wait := delay
			if r.RetryAfter > 0 {
				wait = r.RetryAfter
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with the
// directory-fetch defaults.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, defaultAttempts, defaultDelay, fn)
}
