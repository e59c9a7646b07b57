package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by the cache backends and the payload sources that
// fetch through them.
var (
	// ErrNotFound marks a definitive absence (no payload stored for the
	// verse); it never triggers a retry.
	ErrNotFound = errors.New("not found")

	// ErrNetwork marks a transient failure reaching the annotation backend:
	// timeouts, connection errors, 5xx responses.
	ErrNetwork = errors.New("network error")
)

// RetryableError tags an error as worth another attempt. Sources wrap
// transient fetch failures in it; everything else fails fast.
type RetryableError struct{ Err error }

// Retryable wraps err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in its
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts from one second. Only retryable errors re-run fn; a definitive
// answer (success, ErrNotFound, validation failure) returns immediately.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
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
