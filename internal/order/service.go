package order

import (
	"context"
	"fmt"

	"mekong-be/internal/logger"
	"mekong-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, orderID uuid.UUID) (*Order, error)
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error)

	// Confirm is the legacy whole-order confirmation: pending -> confirmed.
	Confirm(ctx context.Context, orderID uuid.UUID) (*Order, error)

	// SetStatus is the legacy whole-order status set.
	SetStatus(ctx context.Context, orderID uuid.UUID, status Status) (*Order, error)

	// Cancel cancels the whole order. Non-admin callers may only cancel while
	// the order is still pending.
	Cancel(ctx context.Context, orderID uuid.UUID, reason string, admin bool) error

	// Delete removes an order; only permitted once it is cancelled.
	Delete(ctx context.Context, orderID uuid.UUID) error

	// MarkPaid / MarkFailed are invoked by payment gateway callbacks.
	MarkPaid(ctx context.Context, transactionCode string) error
	MarkFailed(ctx context.Context, transactionCode string) error
}

// Default history notes per status, in the storefront's language.
var statusNotes = map[Status]string{
	StatusPending:          "Đơn hàng đang chờ xử lý",
	StatusConfirmed:        "Đơn hàng đã được xác nhận",
	StatusPreparing:        "Shop đang chuẩn bị hàng",
	StatusAwaitingShipment: "Đơn hàng chờ đơn vị vận chuyển",
	StatusShipping:         "Đơn hàng đang được giao",
	StatusDelivered:        "Đơn hàng đã giao thành công",
	StatusCancelled:        "Đơn hàng đã bị hủy",
}

// DefaultNote returns the history note used when the caller supplies none.
func DefaultNote(s Status) string {
	if note, ok := statusNotes[s]; ok {
		return note
	}
	return string(s)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if userID, ok := utils.GetUserIDFromContext(ctx); ok && !utils.IsAdmin(ctx) {
		if order.UserID != userID {
			return nil, fmt.Errorf("cannot access others' orders: %w", ErrUnauthorized)
		}
	}

	return order, nil
}

func (s *service) List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error) {
	if !utils.IsAdmin(ctx) {
		if userID, ok := utils.GetUserIDFromContext(ctx); ok {
			if filter == nil {
				filter = &FilterInput{}
			}
			filter.UserID = &userID
		}
	}

	return s.repo.List(ctx, filter, sort, limit, page)
}

func (s *service) Confirm(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "ConfirmOrder"),
		zap.String("order_id", orderID.String()),
	)

	updated, err := s.repo.UpdateStatusGuarded(
		ctx, orderID,
		StatusPending, StatusConfirmed,
		DefaultNote(StatusConfirmed),
	)
	if err != nil {
		log.Error("failed to confirm order", zap.Error(err))
		return nil, err
	}
	if !updated {
		// Either missing or not pending; tell them apart for the caller.
		if _, err := s.repo.GetStatus(ctx, orderID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("order is not pending: %w", ErrInvalidStateTransition)
	}

	log.Info("order confirmed")

	return s.repo.Get(ctx, orderID)
}

func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status, DefaultNote(status)); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, orderID)
}

func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, reason string, admin bool) error {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if !admin && order.Status != StatusPending {
		return fmt.Errorf("only pending orders can be cancelled by the buyer: %w", ErrUnauthorized)
	}

	if reason == "" {
		reason = DefaultNote(StatusCancelled)
	}

	return s.repo.Cancel(ctx, orderID, reason, reason)
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != StatusCancelled {
		return fmt.Errorf("only cancelled orders can be deleted: %w", ErrInvalidStateTransition)
	}

	return s.repo.Delete(ctx, orderID)
}

func (s *service) MarkPaid(ctx context.Context, transactionCode string) error {
	err := s.repo.UpdateTransactionStatus(ctx, transactionCode, TransactionPaid)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order marked as paid",
		zap.String("transaction_code", transactionCode),
	)
	return nil
}

func (s *service) MarkFailed(ctx context.Context, transactionCode string) error {
	order, err := s.repo.GetByTransactionCode(ctx, transactionCode)
	if err != nil {
		return err
	}

	if order.TransactionStatus == TransactionFailed {
		logger.FromCtx(ctx).Info("order already marked as failed",
			zap.String("transaction_code", transactionCode),
		)
		return nil
	}

	err = s.repo.UpdateTransactionStatus(ctx, transactionCode, TransactionFailed)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order marked as failed",
		zap.String("transaction_code", transactionCode),
	)
	return nil
}
