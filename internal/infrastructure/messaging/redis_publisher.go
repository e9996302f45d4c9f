package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/careerhub/placement-hub/internal/domain/shared"
	"github.com/careerhub/placement-hub/pkg/circuitbreaker"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REDIS PUBLISHER
// Mirrors committed domain events to a Redis Pub/Sub channel as JSON
// envelopes. It is registered on the local bus with SubscribeAll.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultChannel is the Pub/Sub channel used when none is configured.
const DefaultChannel = "placement-hub:events"

// Publisher is the subset of the go-redis client used by RedisPublisher.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisherConfig contains configuration for RedisPublisher.
type RedisPublisherConfig struct {
	Client  Publisher
	Channel string

	// Timeout bounds a single PUBLISH round trip.
	Timeout time.Duration

	// Breaker, when set, skips PUBLISH while Redis keeps failing.
	Breaker *circuitbreaker.CircuitBreaker

	Logger *logger.Logger
}

// RedisPublisher publishes event envelopes to Redis.
type RedisPublisher struct {
	client  Publisher
	channel string
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
	newID   func() string
}

// NewRedisPublisher creates a new Redis publisher.
func NewRedisPublisher(config RedisPublisherConfig) (*RedisPublisher, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.Channel == "" {
		config.Channel = DefaultChannel
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	return &RedisPublisher{
		client:  config.Client,
		channel: config.Channel,
		timeout: config.Timeout,
		breaker: config.Breaker,
		log:     config.Logger.With(logger.Component("redis_publisher"), logger.String("channel", config.Channel)),
		newID:   uuid.NewString,
	}, nil
}

// Publish implements shared.EventPublisher.
func (p *RedisPublisher) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	data, err := p.encode(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var receivers int64
	send := func(ctx context.Context) error {
		n, err := p.client.Publish(ctx, p.channel, data).Result()
		receivers = n
		return err
	}
	if p.breaker != nil {
		err = p.breaker.Execute(ctx, send)
	} else {
		err = send(ctx)
	}

	switch {
	case circuitbreaker.IsRejection(err):
		p.log.Debug("event mirror suspended", logger.String("event_type", string(event.EventType())))
		return nil
	case err != nil:
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}
	p.log.Debug("event mirrored",
		logger.String("event_type", string(event.EventType())),
		logger.Int64("receivers", receivers),
	)
	return nil
}

// Handle lets the publisher be registered as a bus subscriber.
func (p *RedisPublisher) Handle(event shared.Event) error {
	return p.Publish(event)
}

func (p *RedisPublisher) encode(event shared.Event) ([]byte, error) {
	env, err := shared.NewEventEnvelope(p.newID(), event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.EventType(), err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// DecodeEnvelope parses a message received from the channel.
func DecodeEnvelope(payload string) (shared.EventEnvelope, error) {
	var env shared.EventEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return shared.EventEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

var _ shared.EventPublisher = (*RedisPublisher)(nil)
