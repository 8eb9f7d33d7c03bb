// Package lifecycle defines the canonical order states and the transition
// rules between them. All business rules about order progression live here;
// storage and HTTP layers only consume verdicts.
package lifecycle

import (
	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
)

// sequence is the forward path of an order through the kitchen.
var sequence = []model.OrderStatus{
	model.OrderStatusPending,
	model.OrderStatusPreparing,
	model.OrderStatusCooking,
	model.OrderStatusReady,
	model.OrderStatusDelivered,
}

// Initial is the only legal status at creation time.
const Initial = model.OrderStatusPending

// Sequence returns a copy of the forward path. Progress rendering walks it
// in order.
func Sequence() []model.OrderStatus {
	return append([]model.OrderStatus(nil), sequence...)
}

// position returns the index of status in the forward sequence, or -1.
func position(status model.OrderStatus) int {
	for i, s := range sequence {
		if s == status {
			return i
		}
	}
	return -1
}

// Known reports whether status is one of the canonical values.
func Known(status model.OrderStatus) bool {
	return status == model.OrderStatusCancelled || position(status) >= 0
}

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(status model.OrderStatus) bool {
	return status == model.OrderStatusDelivered || status == model.OrderStatusCancelled
}

// ActiveStatuses returns every non-terminal status. The staff queue and the
// table projection are scoped to these.
func ActiveStatuses() []model.OrderStatus {
	return []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusPreparing,
		model.OrderStatusCooking,
		model.OrderStatusReady,
	}
}

// Next returns the single forward step from current, if any.
func Next(current model.OrderStatus) (model.OrderStatus, bool) {
	pos := position(current)
	if pos < 0 || pos == len(sequence)-1 {
		return "", false
	}
	return sequence[pos+1], true
}

// ValidateTransition checks whether requested may follow current. With
// allowSkip=false every forward move must be exactly one step; cancellation
// is legal from any non-terminal state either way. Nothing leaves a
// terminal state.
func ValidateTransition(current, requested model.OrderStatus, allowSkip bool) error {
	if !Known(current) || !Known(requested) {
		return domainErrors.ErrUnknownStatus
	}
	if IsTerminal(current) {
		return domainErrors.ErrInvalidTransition
	}
	if requested == model.OrderStatusCancelled {
		return nil
	}

	from := position(current)
	to := position(requested)
	if to <= from {
		return domainErrors.ErrInvalidTransition
	}
	if !allowSkip && to != from+1 {
		return domainErrors.ErrInvalidTransition
	}
	return nil
}

// Normalize maps a raw stored status to a canonical one. Unrecognized
// values fall back to pending so rendering never crashes on schema drift;
// ok=false tells the caller to log a warning.
func Normalize(raw string) (model.OrderStatus, bool) {
	status := model.OrderStatus(raw)
	if Known(status) {
		return status, true
	}
	return model.OrderStatusPending, false
}
