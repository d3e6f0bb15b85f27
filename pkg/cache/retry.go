package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote cache backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// retryable marks an error as transient.
type retryable struct{ error }

func (r retryable) Unwrap() error { return r.error }

// Retryable marks err as transient so that [Backoff.Do] tries again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

// Backoff retries an operation while it fails with a retryable error,
// doubling Delay after each failure.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used by [RedisCache] unless replaced.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 50 * time.Millisecond}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. It returns ctx.Err() if ctx ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
