package ordershop

import "errors"

var (
	ErrOrderShopNotFound      = errors.New("order shop not found")
	ErrInvalidStatus          = errors.New("invalid order shop status")
	ErrInvalidStateTransition = errors.New("invalid order shop state transition")
	ErrEmptyOrder             = errors.New("order shop has no line items")
)
