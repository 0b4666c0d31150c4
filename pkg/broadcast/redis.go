package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster is a Broadcaster backed by Redis pub/sub, for deployments
// where push subscribers are connected to different service instances.
// Each topic maps to one Redis channel under the configured prefix.
// Payloads are JSON-encoded, so T must marshal cleanly.
type RedisBroadcaster[T any] struct {
	client     redis.UniversalClient
	prefix     string
	bufferSize int
	logger     *slog.Logger

	mu     sync.Mutex
	pubsub map[*redis.PubSub]struct{}
	closed bool
}

// RedisBroadcasterOption configures a RedisBroadcaster.
type RedisBroadcasterOption[T any] func(*RedisBroadcaster[T])

// WithRedisLogger sets the logger used for decode failures.
func WithRedisLogger[T any](logger *slog.Logger) RedisBroadcasterOption[T] {
	return func(b *RedisBroadcaster[T]) {
		b.logger = logger
	}
}

// NewRedisBroadcaster creates a Redis-backed broadcaster. The prefix
// namespaces all channels so multiple broadcasters can share one Redis.
func NewRedisBroadcaster[T any](client redis.UniversalClient, prefix string, bufferSize int, opts ...RedisBroadcasterOption[T]) *RedisBroadcaster[T] {
	b := &RedisBroadcaster[T]{
		client:     client,
		prefix:     prefix,
		bufferSize: max(bufferSize, 1),
		logger:     slog.Default(),
		pubsub:     make(map[*redis.PubSub]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *RedisBroadcaster[T]) channelName(topic string) string {
	if b.prefix == "" {
		return topic
	}
	return b.prefix + ":" + topic
}

// Subscribe opens a Redis subscription on the topic's channel and pumps
// decoded messages into the returned subscriber until the context is
// cancelled or the broadcaster is closed.
func (b *RedisBroadcaster[T]) Subscribe(ctx context.Context, topic string) Subscriber[T] {
	sub := newSubscriber[T](b.bufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = sub.Close()
		return sub
	}
	ps := b.client.Subscribe(ctx, b.channelName(topic))
	b.pubsub[ps] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.pubsub, ps)
			b.mu.Unlock()
			_ = ps.Close()
			_ = sub.Close()
		}()

		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var data T
				if err := json.Unmarshal([]byte(m.Payload), &data); err != nil {
					b.logger.LogAttrs(ctx, slog.LevelWarn, "Dropping undecodable broadcast payload",
						slog.String("channel", m.Channel),
						slog.Any("error", err),
					)
					continue
				}
				sub.send(Message[T]{Data: data})
			}
		}
	}()

	return sub
}

// Broadcast publishes the message to the topic's Redis channel.
func (b *RedisBroadcaster[T]) Broadcast(ctx context.Context, topic string, msg Message[T]) error {
	payload, err := json.Marshal(msg.Data)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channelName(topic), payload).Err()
}

// Close closes all open subscriptions. The Redis client itself is owned by
// the caller and is not closed here.
func (b *RedisBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for ps := range b.pubsub {
		_ = ps.Close()
	}
	clear(b.pubsub)
	return nil
}
