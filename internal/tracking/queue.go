package tracking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/stream"
)

// QueueSource is the store surface the staff queue needs.
type QueueSource interface {
	ListActive(ctx context.Context) ([]model.Order, error)
	SubscribeActive(ctx context.Context) (*stream.Subscription, error)
}

// Queue feeds the staff panel a fresh view of the active order set. Every
// change event triggers a full rebuild rather than an in-place patch, so a
// dropped event can never leave the panel stale past the next change.
type Queue struct {
	source QueueSource
	logger *slog.Logger

	sub       *stream.Subscription
	snapshots chan []model.Order
	done      chan struct{}
	once      sync.Once
}

// Watch subscribes to the active set and starts the feed. The first snapshot
// is emitted immediately; the caller must Close on disconnect.
func Watch(ctx context.Context, source QueueSource, logger *slog.Logger) (*Queue, error) {
	sub, err := source.SubscribeActive(ctx)
	if err != nil {
		return nil, err
	}
	q := &Queue{
		source:    source,
		logger:    logger,
		sub:       sub,
		snapshots: make(chan []model.Order, 4),
		done:      make(chan struct{}),
	}
	go q.run()
	return q, nil
}

// Snapshots is the rebuilt-view feed. The channel is closed after Close.
func (q *Queue) Snapshots() <-chan []model.Order {
	return q.snapshots
}

// Close detaches from the event feed. Safe to call more than once.
func (q *Queue) Close() {
	q.once.Do(func() {
		q.sub.Close()
		close(q.done)
	})
}

func (q *Queue) run() {
	defer close(q.snapshots)

	// The subscription is prefilled with one event per active order; they
	// carry no information the first rebuild does not, so drop them.
	q.drain()
	if !q.rebuild() {
		return
	}

	for {
		select {
		case _, ok := <-q.sub.C:
			if !ok {
				return
			}
			q.drain()
			if !q.rebuild() {
				return
			}
		case <-q.done:
			return
		}
	}
}

// drain coalesces bursts of queued events into a single rebuild.
func (q *Queue) drain() {
	for {
		select {
		case _, ok := <-q.sub.C:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (q *Queue) rebuild() bool {
	orders, err := q.source.ListActive(context.Background())
	if err != nil {
		q.logger.Error("active set rebuild failed", slog.String("error", err.Error()))
		return true
	}
	select {
	case q.snapshots <- orders:
		return true
	case <-q.done:
		return false
	}
}
