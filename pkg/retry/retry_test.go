package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

// fast shrinks a preset's delays so tests do not sleep.
func fast(r *Retrier) *Retrier {
	r.base = time.Millisecond
	r.ceil = 2 * time.Millisecond
	r.jitter = 0
	return r
}

func TestLockRetrier_RetriesRetryableUntilSuccess(t *testing.T) {
	calls := 0
	err := fast(LockRetrier(5)).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(errBusy)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestLockRetrier_StopsOnUnmarkedError(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	err := fast(LockRetrier(5)).Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestLockRetrier_ExhaustedReturnsUnmarked(t *testing.T) {
	var attempts []int
	r := fast(LockRetrier(3, WithOnRetry(func(attempt int, err error, _ time.Duration) {
		attempts = append(attempts, attempt)
		assert.False(t, IsRetryable(err))
	})))

	err := r.Do(context.Background(), func(context.Context) error { return Retryable(errBusy) })

	assert.Equal(t, errBusy, err)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestPermanent_ShortCircuitsRetryAll(t *testing.T) {
	denied := errors.New("password authentication failed")
	calls := 0
	err := fast(DatabaseRetrier()).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(denied)
	})

	assert.Equal(t, denied, err)
	assert.Equal(t, 1, calls)
}

func TestDatabaseRetrier_RetriesPlainErrors(t *testing.T) {
	calls := 0
	err := fast(DatabaseRetrier(WithMaxAttempts(4))).Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 4, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := fast(RedisRetrier()).Do(ctx, func(context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDo_CancelledDuringWaitKeepsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := LockRetrier(10, WithOnRetry(func(int, error, time.Duration) { cancel() }))

	err := r.Do(ctx, func(context.Context) error { return Retryable(errBusy) })

	assert.Equal(t, errBusy, err)
}

func TestBackoff_Capped(t *testing.T) {
	r := LockRetrier(10)
	r.jitter = 0

	assert.Equal(t, 20*time.Millisecond, r.backoff(1))
	assert.Equal(t, 30*time.Millisecond, r.backoff(2))
	assert.Equal(t, 500*time.Millisecond, r.backoff(20))
}

func TestBackoff_JitterStaysInBand(t *testing.T) {
	r := DatabaseRetrier()
	for i := 0; i < 50; i++ {
		d := r.backoff(1)
		assert.GreaterOrEqual(t, d, 180*time.Millisecond)
		assert.LessOrEqual(t, d, 220*time.Millisecond)
	}
}

func TestPresets_IgnoreNonPositiveAttempts(t *testing.T) {
	assert.Equal(t, 1, LockRetrier(0).attempts)
	assert.Equal(t, 5, DatabaseRetrier(WithMaxAttempts(-1)).attempts)
}
