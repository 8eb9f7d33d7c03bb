package dto

import (
	"time"

	"github.com/hunabku/comanda/internal/domain/model"
)

// CheckoutItem is one cart line in a checkout request.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest describes the order creation payload.
type CheckoutRequest struct {
	Table string         `json:"table"`
	Items []CheckoutItem `json:"items"`
	Notes string         `json:"notes"`
}

// TransitionRequest carries the requested target status.
type TransitionRequest struct {
	Status string `json:"status"`
}

// LineItemResponse is one snapshotted order line.
type LineItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// OrderResponse is the full order representation.
type OrderResponse struct {
	ID        string             `json:"id"`
	Table     string             `json:"table"`
	Items     []LineItemResponse `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	Tax       float64            `json:"tax"`
	Service   float64            `json:"service"`
	Total     float64            `json:"total"`
	Status    string             `json:"status"`
	Code      string             `json:"code"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ErrorResponse is the uniform error body. Retryable marks failures the
// client may resubmit unchanged, such as a temporarily unreachable store.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ToOrderResponse maps a domain order onto the wire representation.
func ToOrderResponse(order model.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		items = append(items, LineItemResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Total:     line.Total(),
		})
	}
	return OrderResponse{
		ID:        order.ID,
		Table:     order.Table,
		Items:     items,
		Subtotal:  order.Subtotal,
		Tax:       order.Tax,
		Service:   order.Service,
		Total:     order.Total,
		Status:    string(order.Status),
		Code:      order.Code,
		Notes:     order.Notes,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}
