package order

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidStateTransition = errors.New("invalid order state transition")
	ErrUnauthorized           = errors.New("unauthorized")
)
