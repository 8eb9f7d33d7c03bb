package repository

import (
	"context"
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	GetByID(ctx context.Context, orderID string) (*model.Order, error)
	ListActive(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	DeliveredSince(ctx context.Context, since time.Time) ([]model.Order, error)
}
