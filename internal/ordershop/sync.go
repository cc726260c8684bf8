package ordershop

import "mekong-be/internal/order"

// SyncNote is appended to the parent order's history when its status is
// cascaded from the shop sub-orders.
const SyncNote = "Cập nhật từ trạng thái các đơn hàng của shop"

// DeriveOrderStatus computes the parent order status from its sub-orders'
// statuses. Rules are evaluated in fixed precedence:
//
//  1. all delivered               -> delivered
//  2. all cancelled/failed/refund -> cancelled
//  3. any shipping                -> shipping
//  4. any awaiting_shipment       -> awaiting_shipment
//  5. any preparing               -> preparing
//  6. any confirmed               -> confirmed
//  7. otherwise                   -> pending
//
// Returns false when the sub-order set is empty; the parent is left untouched.
func DeriveOrderStatus(statuses []Status) (order.Status, bool) {
	if len(statuses) == 0 {
		return "", false
	}

	allDelivered := true
	allTerminal := true
	var anyShipping, anyAwaiting, anyPreparing, anyConfirmed bool

	for _, s := range statuses {
		if s != StatusDelivered {
			allDelivered = false
		}
		if !s.Terminal() {
			allTerminal = false
		}

		switch s {
		case StatusShipping:
			anyShipping = true
		case StatusAwaitingShipment:
			anyAwaiting = true
		case StatusPreparing:
			anyPreparing = true
		case StatusConfirmed:
			anyConfirmed = true
		}
	}

	switch {
	case allDelivered:
		return order.StatusDelivered, true
	case allTerminal:
		return order.StatusCancelled, true
	case anyShipping:
		return order.StatusShipping, true
	case anyAwaiting:
		return order.StatusAwaitingShipment, true
	case anyPreparing:
		return order.StatusPreparing, true
	case anyConfirmed:
		return order.StatusConfirmed, true
	default:
		return order.StatusPending, true
	}
}
