package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks backend failures that may succeed on retry, such as
// timeouts and refused connections.
var ErrNetwork = errors.New("network error")

// Backend retry policy. RetryDelay doubles after every failed attempt.
var (
	RetryAttempts = 3
	RetryDelay    = 200 * time.Millisecond
)

type transient struct{ err error }

func (t transient) Error() string { return t.err.Error() }
func (t transient) Unwrap() error { return t.err }

// Retryable marks err as transient so RetryWithBackoff tries again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return transient{err}
}

// IsRetryable reports whether err, or anything it wraps, was marked by
// Retryable.
func IsRetryable(err error) bool {
	var t transient
	return errors.As(err, &t)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or RetryAttempts calls have failed. The last error is returned
// unchanged. Waiting stops early when ctx is done.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	err := fn()
	for attempt := 1; attempt < RetryAttempts && IsRetryable(err); attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
