package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusPreparing        Status = "preparing"
	StatusAwaitingShipment Status = "awaiting_shipment"
	StatusShipping         Status = "shipping"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusAwaitingShipment,
		StatusShipping, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionUnpaid   TransactionStatus = "unpaid"
	TransactionPaid     TransactionStatus = "paid"
	TransactionFailed   TransactionStatus = "failed"
	TransactionRefunded TransactionStatus = "refunded"
)

// StatusHistory is one append-only entry of an order's status trail.
type StatusHistory struct {
	Status    Status
	Note      string
	CreatedAt time.Time
}

// Order is the customer-facing aggregate of one checkout. Its status is
// derived from the per-shop sub-orders and written back by the synchronizer,
// never set directly by clients.
type Order struct {
	ID                uuid.UUID
	UserID            uint
	AddressID         *uuid.UUID
	VoucherID         *uuid.UUID
	TotalPrice        decimal.Decimal
	Status            Status
	PaymentMethod     string
	TransactionCode   *string
	TransactionStatus TransactionStatus
	DeliveryDate      *time.Time
	CancelReason      *string
	History           []StatusHistory
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type FilterInput struct {
	UserID   *uint
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}

type SortField string

const (
	SortFieldCreatedAt SortField = "created_at"
	SortFieldTotal     SortField = "total_price"
)

type SortInput struct {
	Field     SortField
	Direction string
}
