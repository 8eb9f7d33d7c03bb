package model

import "time"

// OrderStatus describes the kitchen lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// LineItem is a menu item snapshotted into an order at checkout.
// Name and UnitPrice are frozen copies; later menu edits never touch them.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Total returns the extended price of the line.
func (li LineItem) Total() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Order describes a submitted table order tracked through the lifecycle.
type Order struct {
	ID        string
	Table     string
	LineItems []LineItem
	Subtotal  float64
	Tax       float64
	Service   float64
	Total     float64
	Status    OrderStatus
	Code      string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderDraft carries everything needed to create an order. Line items are
// already snapshotted and totals already computed by the checkout use case.
type OrderDraft struct {
	Table     string
	LineItems []LineItem
	Subtotal  float64
	Tax       float64
	Service   float64
	Total     float64
	Code      string
	Notes     string
}

// CartItem is the customer-supplied portion of a checkout request.
// Prices and names are resolved server-side against the product catalog.
type CartItem struct {
	ProductID string
	Quantity  int
}
