package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 64

// subscriber is one live subscription. Subscriptions are tracked by id so a
// cancelled context tears down exactly its own channel.
type subscriber[T any] struct {
	ch chan Event[T]
}

// Broker fans published events out to any number of subscribers. Delivery
// is best-effort: a subscriber that stops draining its channel loses events
// rather than stalling publishers.
type Broker[T any] struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscriber[T]
	nextID  uint64
	buffer  int
	closed  bool
	dropped atomic.Uint64
}

// NewBroker creates a broker with the default per-subscriber buffer.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker whose subscriber channels hold size
// events before further publishes to that subscriber are dropped.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[uint64]*subscriber[T]),
		buffer: size,
	}
}

// Subscribe registers a subscriber and returns its event channel. The
// channel closes when ctx is cancelled or the broker shuts down. A closed
// broker hands back an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	sub := &subscriber[T]{ch: make(chan Event[T], b.buffer)}
	b.subs[id] = sub

	go b.reap(ctx, id)

	return sub.ch
}

// reap removes one subscription once its context ends.
func (b *Broker[T]) reap(ctx context.Context, id uint64) {
	<-ctx.Done()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return // Close already tore the channel down
	}
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// Publish stamps the payload with the event type and current time and
// offers it to every subscriber. Subscribers with full channels are
// skipped; the loss shows up in Dropped.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close shuts the broker down and closes every subscriber channel. Safe to
// call more than once; publishes after Close are no-ops.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many events were discarded because a subscriber's
// channel was full.
func (b *Broker[T]) Dropped() uint64 {
	return b.dropped.Load()
}
