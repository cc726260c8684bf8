package stock

import "github.com/google/uuid"

// Entry is one row of the stock ledger: available quantity for a product
// variant in one size.
type Entry struct {
	VariantID uuid.UUID
	SizeID    uuid.UUID
	Color     string
	Size      string
	Quantity  int
	SKU       string
}
