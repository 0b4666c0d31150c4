package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster implementation.
// It drops messages for slow consumers rather than blocking the broadcast
// operation. All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	topics     map[string]map[*subscriber[T]]struct{}
	bufferSize int
	closed     bool
	mu         sync.RWMutex
	cleanupWg  sync.WaitGroup // tracks cleanup goroutines
}

// NewMemoryBroadcaster creates a new in-memory broadcaster.
// The bufferSize parameter determines the channel buffer size for each
// subscriber. A minimum buffer size of 1 is enforced: when a subscriber's
// buffer is full, new messages are dropped for that subscriber rather than
// blocking the broadcast.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		topics: make(map[string]map[*subscriber[T]]struct{}),
		// Zero-buffer channels would make every send blocking and defeat
		// the non-blocking design.
		bufferSize: max(bufferSize, 1),
	}
}

// Subscribe creates a new subscriber on the topic. The subscription is
// cleaned up when the provided context is cancelled. If the broadcaster is
// already closed, returns a closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context, topic string) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub := newSubscriber[T](b.bufferSize)
		_ = sub.Close()
		return sub
	}

	sub := newSubscriber[T](b.bufferSize)
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*subscriber[T]]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			<-ctx.Done()
			b.unsubscribe(topic, sub)
		}()
	}

	return sub
}

// Broadcast sends a message to all active subscribers of the topic.
// Sends are non-blocking: if a subscriber's channel is full, the message is
// dropped for that subscriber and it is removed. Returns nil even if some
// subscribers did not receive the message.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, topic string, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.topics[topic] {
		if !sub.send(msg) {
			// Remove slow/closed subscribers asynchronously to avoid
			// write-lock contention during the broadcast itself.
			go b.unsubscribe(topic, sub)
		}
	}

	return nil
}

// Close shuts down the broadcaster and closes all subscribers.
// Safe to call multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return nil
	}

	b.closed = true

	for _, subs := range b.topics {
		for sub := range subs {
			_ = sub.Close()
		}
	}

	clear(b.topics)
	b.mu.Unlock()

	// Wait for cleanup goroutines to prevent races between Close and async
	// unsubscribe operations triggered by Broadcast.
	b.cleanupWg.Wait()

	return nil
}

func (b *MemoryBroadcaster[T]) unsubscribe(topic string, sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.topics[topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.topics, topic)
		}
	}
	_ = sub.Close()
}
