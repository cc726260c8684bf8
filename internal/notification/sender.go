package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConfirmedEvent is emitted after a shop confirms its part of an order.
type ConfirmedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderShopID uuid.UUID `json:"order_shop_id"`
	ShopName    string    `json:"shop_name"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Sender delivers order events to the notification channel (email/push).
// Callers treat delivery as fire-and-forget; a failed send never fails the
// order operation.
type Sender interface {
	OrderShopConfirmed(ctx context.Context, event ConfirmedEvent) error
}

// Noop discards every event. Used in tests and when no notification endpoint
// is configured.
type Noop struct{}

func (Noop) OrderShopConfirmed(ctx context.Context, event ConfirmedEvent) error {
	return nil
}
