package httputil

import (
	"context"
	"errors"
	"time"
)

// Backoff defaults for GitHub API calls. Three attempts with a half-second
// initial wait add at most 1.5s of waiting on top of the per-request HTTP
// timeout, enough to ride out a transient 5xx or a brief rate-limit burst
// without stalling the five-way fact fan-out.
const (
	defaultAttempts = 3
	initialBackoff  = 500 * time.Millisecond
)

// RetryableError marks a failure as transient. CheckStatus wraps
// rate-limit and server-side statuses in it; anything else (bad reference,
// missing repository, denied access) fails an analysis outright and must
// not be wrapped.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay between tries. Only
// failures wrapped in [RetryableError] are tried again; any other error
// returns immediately. When every attempt fails the last error is
// returned, and a context cancelled mid-wait returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for remaining := max(attempts, 1); remaining > 0; remaining-- {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if remaining > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn under the package's default backoff schedule.
// The GitHub client routes every request through it.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, defaultAttempts, initialBackoff, fn)
}

// IsRetryable reports whether err is wrapped with [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
