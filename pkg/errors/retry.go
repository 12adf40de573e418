package errors

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// transientError marks a failure worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as a passing failure (a dropped connection, a 5xx
// reply) that Backoff.Retry may attempt again. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or anything it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// Retry calls fn until it succeeds, returns a non-transient error, or the
// attempts run out. A done ctx ends the wait between attempts.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	exp := &backoff.ExponentialBackOff{
		InitialInterval: b.Delay,
		Multiplier:      2,
		MaxInterval:     b.Delay << 10,
	}
	exp.Reset()
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err != nil && !IsTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(exp), backoff.WithMaxTries(uint(max(b.Attempts, 1))))
	return err
}
