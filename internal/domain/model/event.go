package model

import "time"

// OrderEvent is a single change-stream notification about an order.
// Delivery is at-least-once and unordered relative to the write that
// produced it; consumers must re-render from the latest snapshot.
type OrderEvent struct {
	OrderID   string      `json:"order_id"`
	Table     string      `json:"table"`
	Status    OrderStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Resync asks consumers to re-fetch their state instead of trusting
	// the event fields. Emitted in-process after a notification gap; never
	// part of the wire payload.
	Resync bool `json:"-"`
}
