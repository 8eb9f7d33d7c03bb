package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/stream"
)

// OrderStoreStub implements the order store surface consumed by the use
// cases and trackers. It keeps orders in memory and fans change events out
// through a real broker so subscription behaviour matches production.
type OrderStoreStub struct {
	Broker *stream.Broker

	CreateOrderFn  func(context.Context, model.OrderDraft) (*model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) error
	GetOrderFn     func(context.Context, string) (*model.Order, error)
	ListActiveFn   func(context.Context) ([]model.Order, error)

	mu          sync.Mutex
	next        int
	Orders      []model.Order
	Created     []model.OrderDraft
	UpdateCalls []StatusUpdateCall
}

// NewOrderStoreStub constructs a stub seeded with the given orders.
func NewOrderStoreStub(orders ...model.Order) *OrderStoreStub {
	return &OrderStoreStub{Broker: stream.NewBroker(), Orders: orders}
}

// CreateOrder records the draft and stores a pending order unless overridden.
func (s *OrderStoreStub) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	s.mu.Lock()
	s.Created = append(s.Created, draft)
	s.mu.Unlock()
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, draft)
	}

	s.mu.Lock()
	s.next++
	now := time.Now()
	order := model.Order{
		ID:        fmt.Sprintf("order-%d", s.next),
		Table:     draft.Table,
		LineItems: draft.LineItems,
		Subtotal:  draft.Subtotal,
		Tax:       draft.Tax,
		Service:   draft.Service,
		Total:     draft.Total,
		Status:    model.OrderStatusPending,
		Code:      draft.Code,
		Notes:     draft.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Orders = append(s.Orders, order)
	s.mu.Unlock()

	s.Broker.Publish(eventFor(order))
	return &order, nil
}

// UpdateStatus records the call, mutates the stored order and publishes the
// change event.
func (s *OrderStoreStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	s.mu.Lock()
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{OrderID: orderID, Status: status})
	s.mu.Unlock()
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}

	s.mu.Lock()
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].Status = status
			s.Orders[i].UpdatedAt = time.Now()
			order := s.Orders[i]
			s.mu.Unlock()
			s.Broker.Publish(eventFor(order))
			return nil
		}
	}
	s.mu.Unlock()
	return domainErrors.ErrNotFound
}

// GetOrder returns the stored order or ErrNotFound.
func (s *OrderStoreStub) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetOrderFn != nil {
		return s.GetOrderFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListActive returns stored orders in non-terminal states.
func (s *OrderStoreStub) ListActive(ctx context.Context) ([]model.Order, error) {
	if s.ListActiveFn != nil {
		return s.ListActiveFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []model.Order
	for _, o := range s.Orders {
		if o.Status != model.OrderStatusDelivered && o.Status != model.OrderStatusCancelled {
			active = append(active, o)
		}
	}
	return active, nil
}

// SubscribeOrder mirrors the production adapter: register first, then seed
// the current state, then changes for that order only.
func (s *OrderStoreStub) SubscribeOrder(ctx context.Context, orderID string) (*stream.Subscription, error) {
	sub := s.Broker.Subscribe(stream.FilterOrder(orderID))
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.Deliver(eventFor(*order))
	return sub, nil
}

// SubscribeActive delivers a snapshot of the active set followed by every
// subsequent order event.
func (s *OrderStoreStub) SubscribeActive(ctx context.Context) (*stream.Subscription, error) {
	sub := s.Broker.Subscribe(stream.FilterAll())
	active, err := s.ListActive(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}
	for _, o := range active {
		sub.Deliver(eventFor(o))
	}
	return sub, nil
}

// Lock exposes the internal mutex for assertions on recorded calls.
func (s *OrderStoreStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *OrderStoreStub) Unlock() { s.mu.Unlock() }

func eventFor(order model.Order) model.OrderEvent {
	return model.OrderEvent{
		OrderID:   order.ID,
		Table:     order.Table,
		Status:    order.Status,
		UpdatedAt: order.UpdatedAt,
	}
}
