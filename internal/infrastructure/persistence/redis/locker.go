package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/careerhub/placement-hub/internal/domain/placement"
	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/logger"
	"github.com/careerhub/placement-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISTRIBUTED LOCKER
// Each key is a SET NX PX entry holding a random token. Release deletes the
// key only while it still holds our token, so an expired lock that another
// process has since taken is left alone.
// ══════════════════════════════════════════════════════════════════════════════

// releaseScript deletes KEYS[1] only if its value equals ARGV[1].
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// LockClient is the subset of the go-redis client used by Locker.
type LockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// LockerConfig contains configuration for Locker.
type LockerConfig struct {
	Client LockClient

	// TTL is how long a key stays locked if the holder never releases it.
	TTL time.Duration

	// AcquireTimeout bounds the total wait for all keys of one Lock call.
	AcquireTimeout time.Duration

	// MaxAttempts caps the SET NX attempts per key.
	MaxAttempts int

	Logger *logger.Logger
}

// DefaultLockerConfig returns sensible defaults.
func DefaultLockerConfig() LockerConfig {
	return LockerConfig{
		TTL:            TTLDistributedLock,
		AcquireTimeout: 5 * time.Second,
		MaxAttempts:    50,
	}
}

// Locker implements placement.Locker on top of Redis.
type Locker struct {
	client         LockClient
	ttl            time.Duration
	acquireTimeout time.Duration
	maxAttempts    int
	log            *logger.Logger
	newToken       func() string
}

var errLockBusy = errors.New("lock held by another process")

// NewLocker creates a Redis-backed locker.
func NewLocker(config LockerConfig) (*Locker, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	defaults := DefaultLockerConfig()
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.AcquireTimeout <= 0 {
		config.AcquireTimeout = defaults.AcquireTimeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	return &Locker{
		client:         config.Client,
		ttl:            config.TTL,
		acquireTimeout: config.AcquireTimeout,
		maxAttempts:    config.MaxAttempts,
		log:            config.Logger.With(logger.Component("redis_locker")),
		newToken:       uuid.NewString,
	}, nil
}

// Lock implements placement.Locker. Keys are acquired in sorted order under
// a single token; on failure the keys already held are released.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := placement.SortedKeys(keys)
	token := l.newToken()
	held := make([]string, 0, len(sorted))

	acquireCtx, cancel := context.WithTimeout(ctx, l.acquireTimeout)
	defer cancel()

	for _, key := range sorted {
		if err := l.acquire(acquireCtx, LockKey(key), token); err != nil {
			l.releaseAll(held, token)
			return nil, shared.WrapError("lock", "Lock", shared.ErrLockNotAcquired, "lock "+key, err)
		}
		held = append(held, LockKey(key))
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.releaseAll(held, token) })
	}, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	return retry.LockRetrier(l.maxAttempts).Do(ctx, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.Retryable(errLockBusy)
		}
		return nil
	})
}

// releaseAll uses a fresh context: the caller's context may already be done
// by the time the critical section ends.
func (l *Locker) releaseAll(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.acquireTimeout)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		deleted, err := l.client.Eval(ctx, releaseScript, []string{keys[i]}, token).Int64()
		switch {
		case err != nil:
			l.log.Error("lock release failed", logger.String("key", keys[i]), logger.Err(err))
		case deleted == 0:
			l.log.Warn("lock expired before release", logger.String("key", keys[i]), logger.Duration("ttl", l.ttl))
		}
	}
}

var _ placement.Locker = (*Locker)(nil)
