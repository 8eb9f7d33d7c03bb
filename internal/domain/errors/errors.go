package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidTable       = errors.New("invalid table")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
