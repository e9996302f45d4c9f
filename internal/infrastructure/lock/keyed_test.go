package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/placement-hub/internal/domain/shared"
)

func TestKeyed_SerializesSameKey(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := k.Lock(ctx, "internship:INT0001", "student:U1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Zero(t, k.Held())
}

func TestKeyed_ContextCancelReleasesHeldKeys(t *testing.T) {
	k := NewKeyed()
	release, err := k.Lock(context.Background(), "b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = k.Lock(ctx, "a", "b")
	require.Error(t, err)
	assert.True(t, shared.IsRetryable(err))

	// "a" must have been released
	releaseA, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	releaseA()

	release()
	release() // idempotent
	assert.Zero(t, k.Held())
}
