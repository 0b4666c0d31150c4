package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages published on a single topic.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns a channel for receiving broadcast messages.
	// The context parameter allows implementations to respect cancellation
	// during blocking operations (e.g. in the Redis adapter). For the
	// in-memory implementation the context is not used but kept for
	// interface consistency across adapters.
	Receive(ctx context.Context) <-chan Message[T]

	// Close closes the subscriber and releases resources.
	// After Close, the receive channel is closed and no more messages will
	// be received. Close is idempotent.
	Close() error
}

// Broadcaster publishes messages to all subscribers of a topic.
// Topics are opaque keys; the dispatcher uses one topic per user id.
// Implementations should handle slow consumers gracefully, typically by
// dropping messages rather than blocking.
type Broadcaster[T any] interface {
	// Subscribe creates a new subscriber on the given topic. The context
	// controls the lifetime of the subscription - when it is cancelled, the
	// subscription is cleaned up.
	Subscribe(ctx context.Context, topic string) Subscriber[T]

	// Broadcast sends a message to all active subscribers of the topic.
	// Messages may be dropped for slow consumers to prevent blocking.
	Broadcast(ctx context.Context, topic string, msg Message[T]) error

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch: make(chan Message[T], bufferSize),
	}
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
