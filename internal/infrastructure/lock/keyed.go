// Package lock provides an in-process placement.Locker.
package lock

import (
	"context"
	"sync"

	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
)

// Keyed hands out one mutex per key. Entries are reference counted and
// removed once no holder or waiter remains.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{} // buffered(1): a token in the channel means "unlocked"
	refs int
}

// NewKeyed creates an empty keyed locker.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// Lock implements placement.Locker. Keys are acquired in sorted order; if
// the context is cancelled mid-way, already acquired keys are released.
func (k *Keyed) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := placement.SortedKeys(keys)
	held := make([]string, 0, len(sorted))

	for _, key := range sorted {
		if err := k.acquire(ctx, key); err != nil {
			k.releaseAll(held)
			return nil, shared.WrapError("lock", "Lock", shared.ErrLockNotAcquired, "lock "+key, err)
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { k.releaseAll(held) })
	}, nil
}

func (k *Keyed) acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case <-e.ch:
		return nil
	case <-ctx.Done():
		k.drop(key, e)
		return ctx.Err()
	}
}

func (k *Keyed) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.mu.Lock()
		e := k.locks[keys[i]]
		k.mu.Unlock()
		if e == nil {
			continue
		}
		e.ch <- struct{}{}
		k.drop(keys[i], e)
	}
}

func (k *Keyed) drop(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Held returns the number of keys currently tracked. Used by tests and metrics.
func (k *Keyed) Held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

var _ placement.Locker = (*Keyed)(nil)
