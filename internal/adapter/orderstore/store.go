// Package orderstore is the single gateway between the order lifecycle and
// the persistence/notification backend. Use cases and HTTP handlers never
// touch the database driver or the broker directly.
package orderstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/domain/repository"
	"github.com/hunabku/comanda/internal/stream"
)

// Store exposes create, status update, read, and subscribe operations over
// orders. Backend failures surface as ErrStoreUnavailable so callers can
// offer a retry instead of losing the order silently.
type Store struct {
	orders        repository.OrderRepository
	broker        *stream.Broker
	createTimeout time.Duration
	logger        *slog.Logger
}

// New constructs the adapter.
func New(orders repository.OrderRepository, broker *stream.Broker, createTimeout time.Duration, logger *slog.Logger) *Store {
	if createTimeout <= 0 {
		createTimeout = 10 * time.Second
	}
	return &Store{orders: orders, broker: broker, createTimeout: createTimeout, logger: logger}
}

// CreateOrder persists a new order. The call is bounded by the configured
// timeout; on expiry the caller receives ErrStoreUnavailable and must not
// assume the order exists.
func (s *Store) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.createTimeout)
	defer cancel()

	order, err := s.orders.Create(ctx, draft)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// UpdateStatus persists a status change. Validation has already happened at
// the state machine; the store is never sent an illegal value.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return translate(err)
	}
	return nil
}

// GetOrder fetches one order by its store-assigned id.
func (s *Store) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// ListActive returns every order not yet in a terminal state.
func (s *Store) ListActive(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListActive(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// SubscribeOrder opens a change feed scoped to a single order. The
// subscription is registered before the snapshot read so a change landing
// during the read is queued rather than lost; consumers re-render from the
// latest event, so a snapshot arriving behind such a change is harmless.
func (s *Store) SubscribeOrder(ctx context.Context, orderID string) (*stream.Subscription, error) {
	sub := s.broker.Subscribe(stream.FilterOrder(orderID))
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.Deliver(model.OrderEvent{
		OrderID:   order.ID,
		Table:     order.Table,
		Status:    order.Status,
		UpdatedAt: order.UpdatedAt,
	})
	return sub, nil
}

// SubscribeActive opens a change feed over the whole active set. Events for
// any order are delivered, including transitions into terminal states, so
// the consumer notices departures from the set. As with SubscribeOrder,
// registration precedes the snapshot read.
func (s *Store) SubscribeActive(ctx context.Context) (*stream.Subscription, error) {
	sub := s.broker.Subscribe(stream.FilterAll())
	orders, err := s.ListActive(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}
	for _, order := range orders {
		sub.Deliver(model.OrderEvent{
			OrderID:   order.ID,
			Table:     order.Table,
			Status:    order.Status,
			UpdatedAt: order.UpdatedAt,
		})
	}
	return sub, nil
}

// translate maps storage failures onto the adapter error taxonomy. Domain
// sentinels pass through; everything else means the backend is unreachable
// or misbehaving.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domainErrors.ErrNotFound) || errors.Is(err, domainErrors.ErrAlreadyExists) {
		return err
	}
	return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
}
