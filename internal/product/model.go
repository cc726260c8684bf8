package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the buyer-facing slice of a product used by order detail views.
type Summary struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}
