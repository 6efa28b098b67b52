package session

import "sync"

// busCapacity is the per-subscriber buffer size, matching spec.md §5's
// recommendation.
const busCapacity = 100

// busEvent[T] is one item delivered on a subscription: a decoded payload,
// plus a non-zero Lagged count when the bus dropped entries for this
// subscriber (to keep publishing non-blocking) since its last delivery.
type busEvent[T any] struct {
	Payload T
	Lagged  int
}

// broadcastBus fans out published payloads to every active subscriber
// without ever blocking the publisher: a subscriber whose buffer is full
// has its oldest entry dropped and a running Lagged count accumulated,
// delivered on the subscriber's next successful receive (spec.md §5). Used
// for both the ROAccessReport bus and the ReaderEventNotification bus.
type broadcastBus[T any] struct {
	mu    sync.Mutex
	subs  map[int]*busSubscriber[T]
	next  int
	onLag func()
}

type busSubscriber[T any] struct {
	ch     chan busEvent[T]
	lagged int
}

func newBroadcastBus[T any]() *broadcastBus[T] {
	return &broadcastBus[T]{subs: make(map[int]*busSubscriber[T])}
}

// newBroadcastBusWithLagHook is newBroadcastBus plus a callback invoked once
// per dropped delivery, for callers that want to surface lag as a metric.
func newBroadcastBusWithLagHook[T any](onLag func()) *broadcastBus[T] {
	return &broadcastBus[T]{subs: make(map[int]*busSubscriber[T]), onLag: onLag}
}

// subscribe registers a new subscriber and returns its channel and a
// cancel function to unsubscribe.
func (b *broadcastBus[T]) subscribe() (<-chan busEvent[T], func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	sub := &busSubscriber[T]{ch: make(chan busEvent[T], busCapacity)}
	b.subs[id] = sub

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			close(s.ch)
			delete(b.subs, id)
		}
	}
	return sub.ch, cancel
}

// publish delivers payload to every subscriber, dropping the oldest queued
// item (and counting it as lagged) for any subscriber whose buffer is full.
func (b *broadcastBus[T]) publish(payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		event := busEvent[T]{Payload: payload}
		if sub.lagged > 0 {
			event.Lagged = sub.lagged
			sub.lagged = 0
		}

		select {
		case sub.ch <- event:
		default:
			// buffer full: drop the oldest queued entry to make room,
			// then enqueue this one; track the drop for the next delivery.
			select {
			case <-sub.ch:
			default:
			}
			sub.lagged++
			if b.onLag != nil {
				b.onLag()
			}
			select {
			case sub.ch <- event:
			default:
			}
		}
	}
}

// closeAll closes every subscriber channel, used on session teardown.
func (b *broadcastBus[T]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}
