package stock

import "errors"

var (
	ErrStockNotFound     = errors.New("stock entry not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
