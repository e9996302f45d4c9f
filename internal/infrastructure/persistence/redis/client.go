// Package redis wires go-redis into the placement hub: a connection wrapper
// used for event mirroring and a distributed placement.Locker.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careerhub/placement-hub/pkg/logger"
	"github.com/careerhub/placement-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Addr is the Redis server address in "host:port" format.
	Addr string

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxRetries is the maximum number of command retries inside go-redis.
	MaxRetries int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Options converts the configuration into go-redis options.
func (c Config) Options() (*redis.Options, error) {
	if c.Addr == "" {
		return nil, ErrAddrRequired
	}
	if c.DB < 0 || c.DB > 15 {
		return nil, fmt.Errorf("redis: db %d out of range 0-15", c.DB)
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolTimeout:  c.PoolTimeout,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrAddrRequired is returned when no address is configured.
	ErrAddrRequired = errors.New("redis: address is required")

	// ErrConnection is returned when Redis cannot be reached at startup.
	ErrConnection = errors.New("redis: connection failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// KEY PREFIXES
// ══════════════════════════════════════════════════════════════════════════════

const (
	// PrefixLock is the prefix for distributed lock keys.
	PrefixLock = "placement-hub:lock:"

	// TTLDistributedLock is the default lock TTL.
	TTLDistributedLock = 30 * time.Second
)

// LockKey returns the Redis key guarding a placement resource.
func LockKey(resource string) string {
	return PrefixLock + resource
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client owns the go-redis connection pool.
type Client struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewClient connects to Redis and verifies the connection with a bounded
// number of pings.
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	pingTimeout := cfg.DialTimeout
	if pingTimeout <= 0 {
		pingTimeout = DefaultConfig().DialTimeout
	}
	rdb := redis.NewClient(opts)
	log = log.With(logger.Component("redis"), logger.String("addr", cfg.Addr))

	retrier := retry.RedisRetrier(
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("redis ping failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)
	err = retrier.Do(ctx, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		err := rdb.Ping(pingCtx).Err()
		if isAuthError(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	log.Info("connected to redis", logger.Int("db", cfg.DB))
	return &Client{rdb: rdb, log: log}, nil
}

// isAuthError reports a server reply rejecting the configured password.
// Network errors are not replies and stay retryable.
func isAuthError(err error) bool {
	var reply redis.Error
	if !errors.As(err, &reply) {
		return false
	}
	msg := reply.Error()
	for _, prefix := range []string{"NOAUTH", "WRONGPASS", "ERR invalid password", "ERR AUTH"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
