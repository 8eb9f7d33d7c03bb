package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
	"github.com/hunabku/comanda/internal/domain/repository"
)

// TableUseCase projects table occupancy and dashboard figures from orders.
// Tables have no storage of their own; the projection is recomputed from
// the non-terminal order set on every call.
type TableUseCase struct {
	store  OrderStore
	orders repository.OrderRepository
	count  int
}

// Stats is the panel dashboard summary.
type Stats struct {
	ActiveOrders   int
	PendingOrders  int
	TodayOrders    int
	TodaySales     float64
	OccupiedTables int
	TableCount     int
}

// NewTableUseCase constructs TableUseCase for a room of count tables.
func NewTableUseCase(store OrderStore, orders repository.OrderRepository, count int) *TableUseCase {
	if count <= 0 {
		count = 12
	}
	return &TableUseCase{store: store, orders: orders, count: count}
}

// Snapshot computes the occupancy of every table in the room.
func (u *TableUseCase) Snapshot(ctx context.Context) ([]model.Table, error) {
	active, err := u.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]string, len(active))
	for _, order := range active {
		occupied[order.Table] = order.ID
	}

	tables := make([]model.Table, 0, u.count)
	for i := 1; i <= u.count; i++ {
		number := fmt.Sprintf("%02d", i)
		orderID, ok := occupied[number]
		tables = append(tables, model.Table{Number: number, Occupied: ok, OrderID: orderID})
	}
	return tables, nil
}

// Stats aggregates the dashboard numbers for the panel.
func (u *TableUseCase) Stats(ctx context.Context) (*Stats, error) {
	active, err := u.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ActiveOrders: len(active), TableCount: u.count}
	occupied := make(map[string]struct{}, len(active))
	for _, order := range active {
		if order.Status == model.OrderStatusPending {
			stats.PendingOrders++
		}
		occupied[order.Table] = struct{}{}
	}
	stats.OccupiedTables = len(occupied)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	delivered, err := u.orders.DeliveredSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	stats.TodayOrders = len(delivered)
	for _, order := range delivered {
		stats.TodaySales += order.Total
	}
	return stats, nil
}
