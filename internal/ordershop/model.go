package ordershop

import (
	"time"

	"mekong-be/internal/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatusHistory is one append-only entry of a sub-order's status trail. The
// last entry always matches the current status.
type StatusHistory struct {
	Status    Status
	Note      string
	CreatedAt time.Time
}

// OrderShop is the portion of an order fulfilled by a single shop. It carries
// its own status workflow; the parent order's status is derived from all of
// its siblings.
type OrderShop struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ShopID        uuid.UUID
	ShopName      string
	TotalPrice    decimal.Decimal
	Status        Status
	StockDeducted bool
	ConfirmedAt   *time.Time
	History       []StatusHistory
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderDetail is one product/variant/size line item within an OrderShop.
type OrderDetail struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	OrderShopID uuid.UUID
	ShopID      uuid.UUID
	ProductID   uuid.UUID
	VariantID   uuid.UUID
	SizeID      uuid.UUID
	Quantity    int
}

// DetailView is the read-side projection of a line item: the detail plus the
// product summary, or a nil product when it no longer exists.
type DetailView struct {
	Detail  OrderDetail      `json:"detail"`
	Product *product.Summary `json:"product"`
}

type FilterInput struct {
	ShopID   *uuid.UUID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
