// Package stream fans order change events out to in-process subscribers.
// It is the in-memory half of the change stream; the worker package feeds
// it from the database notification channel.
package stream

import (
	"sync"

	"github.com/hunabku/comanda/internal/domain/model"
)

// subscriptionBuffer bounds each subscriber channel. Consumers re-render
// from snapshots, so dropping intermediate events under backpressure only
// costs a redundant refresh, never correctness.
const subscriptionBuffer = 16

// Filter selects which events a subscription receives.
type Filter func(model.OrderEvent) bool

// FilterOrder matches events for a single order.
func FilterOrder(orderID string) Filter {
	return func(e model.OrderEvent) bool { return e.OrderID == orderID }
}

// FilterAll matches every event.
func FilterAll() Filter {
	return func(model.OrderEvent) bool { return true }
}

// Subscription is a handle on a live event feed. Close is idempotent and
// must be called on teardown; C is closed afterwards.
type Subscription struct {
	C      <-chan model.OrderEvent
	ch     chan model.OrderEvent
	filter Filter
	broker *Broker
	once   sync.Once
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.remove(s)
		close(s.ch)
	})
}

// Deliver queues event on this subscription only. Callers use it to seed a
// snapshot after the subscription is already registered, so no concurrent
// publish can fall between the snapshot read and registration. A full
// buffer drops the event the same way Publish does; the queued changes then
// already carry newer state than the snapshot.
func (s *Subscription) Deliver(event model.OrderEvent) {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if _, ok := s.broker.subs[s]; !ok {
		return
	}
	select {
	case s.ch <- event:
	default:
	}
}

// Broker distributes events to subscribers.
type Broker struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewBroker constructs an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber for events matching filter. The
// caller seeds the snapshot via Deliver after registration, which gives the
// "initial snapshot, then updates" delivery contract without a window where
// a concurrent publish can be missed.
func (b *Broker) Subscribe(filter Filter) *Subscription {
	ch := make(chan model.OrderEvent, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch, filter: filter, broker: b}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish delivers event to every matching subscriber. Full subscriber
// buffers are skipped rather than blocked on.
func (b *Broker) Publish(event model.OrderEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		if !sub.filter(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Broadcast delivers event to every subscriber regardless of filter. The
// notification listener uses it to signal a resync after a gap in the feed.
func (b *Broker) Broadcast(event model.OrderEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}
