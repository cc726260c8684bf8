package ordershop

type Status string

const (
	StatusUnpending        Status = "unpending"
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusPreparing        Status = "preparing"
	StatusAwaitingShipment Status = "awaiting_shipment"
	StatusShipping         Status = "shipping"
	StatusDelivered        Status = "delivered"
	StatusFailed           Status = "failed"
	StatusCancelled        Status = "cancelled"
	StatusRefund           Status = "refund"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpending, StatusPending, StatusConfirmed, StatusPreparing,
		StatusAwaitingShipment, StatusShipping, StatusDelivered,
		StatusFailed, StatusCancelled, StatusRefund:
		return true
	}
	return false
}

// Updatable reports whether s is a permitted target for the generic status
// update. Sub-orders start out unpending/pending; nothing moves them back.
func (s Status) Updatable() bool {
	switch s {
	case StatusConfirmed, StatusPreparing, StatusAwaitingShipment,
		StatusShipping, StatusDelivered, StatusFailed,
		StatusCancelled, StatusRefund:
		return true
	}
	return false
}

// Terminal reports whether s ends the sub-order's lifecycle without delivery.
func (s Status) Terminal() bool {
	switch s {
	case StatusCancelled, StatusFailed, StatusRefund:
		return true
	}
	return false
}

// CanTransition reports whether the workflow permits moving from one status to
// another. The workflow constrains the target, not the source: any sub-order
// may move to any updatable status (refund included, so a shop can refund at
// any point). Only repeating the current status is rejected. The one
// source-sensitive move, pending -> preparing on confirm, is guarded inside
// the confirm transaction instead.
func CanTransition(from, to Status) bool {
	return to.Valid() && to.Updatable() && from != to
}

// ConfirmNote is the history note for the pending -> preparing flip on
// confirmation, where the recorded status is already preparing.
const ConfirmNote = "Shop đã xác nhận và đang chuẩn bị hàng"

// Default history notes per status, in the storefront's language.
var statusNotes = map[Status]string{
	StatusPending:          "Đơn hàng đang chờ shop xác nhận",
	StatusConfirmed:        "Shop đã xác nhận đơn hàng",
	StatusPreparing:        "Shop đang chuẩn bị hàng",
	StatusAwaitingShipment: "Đơn hàng chờ đơn vị vận chuyển lấy hàng",
	StatusShipping:         "Đơn hàng đang được giao",
	StatusDelivered:        "Đơn hàng đã giao thành công",
	StatusFailed:           "Giao hàng không thành công",
	StatusCancelled:        "Người bán đã hủy đơn hàng",
	StatusRefund:           "Đơn hàng đã được hoàn tiền",
}

// DefaultNote returns the history note used when the caller supplies none.
func DefaultNote(s Status) string {
	if note, ok := statusNotes[s]; ok {
		return note
	}
	return string(s)
}
