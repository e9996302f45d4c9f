// Package retry runs infrastructure calls with exponential backoff and jitter.
// It is used for the database connect, the Redis connect and lock
// acquisition; domain rejections are never retried.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MARKERS
// ══════════════════════════════════════════════════════════════════════════════

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Retryable marks err as worth another attempt. Retriers without a custom
// predicate retry only marked errors.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err carries the Retryable mark.
func IsRetryable(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Permanent marks err as final: Do returns it at once, whatever the
// predicate says. Use it for failures another attempt cannot fix, such as
// rejected credentials.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ══════════════════════════════════════════════════════════════════════════════
// RETRIER
// ══════════════════════════════════════════════════════════════════════════════

// Retrier holds one backoff policy. Build it with a preset.
type Retrier struct {
	attempts int
	base     time.Duration
	ceil     time.Duration
	factor   float64
	jitter   float64

	retryIf func(error) bool
	onRetry func(attempt int, err error, delay time.Duration)
}

// Option adjusts a preset.
type Option func(*Retrier)

// WithMaxAttempts overrides the number of attempts, the first one included.
func WithMaxAttempts(n int) Option {
	return func(r *Retrier) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithRetryIf replaces the predicate that decides whether an error is retried.
func WithRetryIf(fn func(error) bool) Option {
	return func(r *Retrier) { r.retryIf = fn }
}

// WithOnRetry registers a callback invoked before every wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(r *Retrier) { r.onRetry = fn }
}

func build(r Retrier, opts []Option) *Retrier {
	for _, opt := range opts {
		opt(&r)
	}
	if r.attempts < 1 {
		r.attempts = 1
	}
	return &r
}

// Do calls op until it succeeds, the policy gives up or ctx is done.
// The returned error is the last failure with retry marks removed.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if last != nil {
				return last
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		last = err
		var t *transientError
		if errors.As(err, &t) {
			last = t.err
		}

		if attempt >= r.attempts || !r.shouldRetry(err) {
			return last
		}

		delay := r.backoff(attempt)
		if r.onRetry != nil {
			r.onRetry(attempt, last, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last
		case <-timer.C:
		}
	}
}

func (r *Retrier) shouldRetry(err error) bool {
	if r.retryIf != nil {
		return r.retryIf(err)
	}
	return IsRetryable(err)
}

// backoff is base*factor^(attempt-1), capped at ceil, then spread by ±jitter.
func (r *Retrier) backoff(attempt int) time.Duration {
	d := float64(r.base) * math.Pow(r.factor, float64(attempt-1))
	if d > float64(r.ceil) {
		d = float64(r.ceil)
	}
	if r.jitter > 0 {
		d += d * r.jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(max(d, 0))
}

// ══════════════════════════════════════════════════════════════════════════════
// PRESETS
// ══════════════════════════════════════════════════════════════════════════════

func always(error) bool { return true }

// DatabaseRetrier retries every failure of the startup database ping except
// Permanent ones.
func DatabaseRetrier(opts ...Option) *Retrier {
	return build(Retrier{
		attempts: 5,
		base:     200 * time.Millisecond,
		ceil:     5 * time.Second,
		factor:   2,
		jitter:   0.1,
		retryIf:  always,
	}, opts)
}

// RedisRetrier retries every failure of the startup Redis ping except
// Permanent ones.
func RedisRetrier(opts ...Option) *Retrier {
	return build(Retrier{
		attempts: 3,
		base:     100 * time.Millisecond,
		ceil:     2 * time.Second,
		factor:   2,
		jitter:   0.1,
		retryIf:  always,
	}, opts)
}

// LockRetrier polls a contended lock. Only Retryable errors are retried;
// the caller bounds the total wait with the context deadline.
func LockRetrier(maxAttempts int, opts ...Option) *Retrier {
	return build(Retrier{
		attempts: maxAttempts,
		base:     20 * time.Millisecond,
		ceil:     500 * time.Millisecond,
		factor:   1.5,
		jitter:   0.3,
	}, opts)
}
