// Package tracking turns the raw order event feed into the two live views
// the UIs consume: the customer progress tracker and the staff queue.
package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/lifecycle"
	"github.com/hunabku/comanda/internal/stream"
)

// OrderSource is the store surface a single-order tracker needs.
type OrderSource interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	SubscribeOrder(ctx context.Context, orderID string) (*stream.Subscription, error)
}

// Step is one stage of the progress bar.
type Step struct {
	Status model.OrderStatus `json:"status"`
	Label  lifecycle.Label   `json:"label"`
	Done   bool              `json:"done"`
	Active bool              `json:"active"`
}

// Update is one rendered frame of the customer tracking view. Invoice is set
// exactly once, on the frame emitted after the delivery grace period.
type Update struct {
	OrderID   string            `json:"order_id"`
	Status    model.OrderStatus `json:"status"`
	Steps     []Step            `json:"steps"`
	Cancelled bool              `json:"cancelled,omitempty"`
	Invoice   *model.Order      `json:"invoice,omitempty"`
}

// Tracker follows one order from subscription until a terminal frame. The
// first update carries the current state; later ones arrive per change.
// After a delivered event the tracker waits out the grace period, emits a
// single invoice frame and shuts down.
type Tracker struct {
	source  OrderSource
	orderID string
	locale  string
	grace   time.Duration
	logger  *slog.Logger

	sub       *stream.Subscription
	updates   chan Update
	invoiceCh chan struct{}
	done      chan struct{}
	once      sync.Once
}

// Track subscribes to the order and starts the feed. The caller must Close
// the tracker when the client goes away.
func Track(ctx context.Context, source OrderSource, orderID, locale string, grace time.Duration, logger *slog.Logger) (*Tracker, error) {
	sub, err := source.SubscribeOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	t := &Tracker{
		source:    source,
		orderID:   orderID,
		locale:    locale,
		grace:     grace,
		logger:    logger,
		sub:       sub,
		updates:   make(chan Update, 8),
		invoiceCh: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go t.run()
	return t, nil
}

// Updates is the frame feed. The channel is closed after the terminal frame
// or after Close.
func (t *Tracker) Updates() <-chan Update {
	return t.updates
}

// Close detaches from the event feed. Safe to call more than once.
func (t *Tracker) Close() {
	t.once.Do(func() {
		t.sub.Close()
		close(t.done)
	})
}

func (t *Tracker) run() {
	defer close(t.updates)

	var last model.OrderStatus
	for {
		select {
		case event, ok := <-t.sub.C:
			if !ok {
				return
			}
			raw := string(event.Status)
			if event.Resync {
				// The feed had a gap; the event carries no state, so fetch
				// the order and render whatever it says now.
				order, err := t.source.GetOrder(context.Background(), t.orderID)
				if err != nil {
					t.logger.Warn("resync fetch failed",
						slog.String("order", t.orderID),
						slog.String("error", err.Error()),
					)
					continue
				}
				raw = string(order.Status)
			}
			status, known := lifecycle.Normalize(raw)
			if !known {
				t.logger.Warn("unrecognized status in event feed",
					slog.String("order", t.orderID),
					slog.String("status", string(event.Status)),
				)
			}
			if status == last {
				// Duplicate deliveries of the same change are expected;
				// re-rendering the same frame is pointless and a second
				// delivered event must not arm another invoice timer.
				continue
			}
			last = status

			update := Update{OrderID: t.orderID, Status: status, Steps: Steps(status, t.locale)}
			switch status {
			case model.OrderStatusCancelled:
				update.Cancelled = true
				t.deliver(update)
				t.Close()
			case model.OrderStatusDelivered:
				t.deliver(update)
				time.AfterFunc(t.grace, func() {
					select {
					case t.invoiceCh <- struct{}{}:
					default:
					}
				})
			default:
				t.deliver(update)
			}

		case <-t.invoiceCh:
			order, err := t.source.GetOrder(context.Background(), t.orderID)
			if err != nil {
				t.logger.Error("invoice fetch failed",
					slog.String("order", t.orderID),
					slog.String("error", err.Error()),
				)
				t.Close()
				return
			}
			t.deliver(Update{
				OrderID: t.orderID,
				Status:  order.Status,
				Steps:   Steps(order.Status, t.locale),
				Invoice: order,
			})
			t.Close()
			return

		case <-t.done:
			return
		}
	}
}

func (t *Tracker) deliver(update Update) {
	select {
	case t.updates <- update:
	case <-t.done:
	}
}

// Steps renders the progress bar for a status. Cancelled orders show no
// active stage.
func Steps(status model.OrderStatus, locale string) []Step {
	seq := lifecycle.Sequence()
	pos := -1
	for i, s := range seq {
		if s == status {
			pos = i
		}
	}

	steps := make([]Step, 0, len(seq))
	for i, s := range seq {
		steps = append(steps, Step{
			Status: s,
			Label:  lifecycle.LabelFor(s, locale),
			Done:   pos >= 0 && i < pos,
			Active: i == pos,
		})
	}
	return steps
}
