package ordershop

import (
	"context"
	"fmt"
	"time"

	"mekong-be/internal/logger"
	"mekong-be/internal/notification"
	"mekong-be/internal/order"
	"mekong-be/internal/product"
	"mekong-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error)
	List(ctx context.Context) ([]*OrderShop, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*OrderShop, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error)
	ListFiltered(ctx context.Context, filter *FilterInput, limit, page int32) ([]*OrderShop, error)

	// GetDetails assembles the line items of a sub-order with their product
	// summaries; a missing product yields a nil summary, not an error.
	GetDetails(ctx context.Context, orderShopID uuid.UUID) ([]DetailView, error)

	// Confirm moves a pending sub-order to preparing, deducting stock for
	// every line item atomically. Safe to retry: a sub-order whose stock was
	// already deducted skips the deduction, and a non-pending sub-order fails
	// with ErrInvalidStateTransition.
	Confirm(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error)

	// ConfirmAllForOrder confirms every pending sub-order of an order,
	// best-effort. Per-item failures are logged and skipped; only the
	// successfully confirmed sub-orders are returned.
	ConfirmAllForOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error)

	UpdateStatus(ctx context.Context, orderShopID uuid.UUID, status Status, note string) (*OrderShop, error)
	Cancel(ctx context.Context, orderShopID uuid.UUID, note string) (*OrderShop, error)
	Refund(ctx context.Context, orderShopID uuid.UUID, note string) (*OrderShop, error)

	// Delete removes the sub-order with its line items and re-derives the
	// parent order's status.
	Delete(ctx context.Context, orderShopID uuid.UUID) error
}

type service struct {
	repo         Repository
	orderRepo    order.Repository
	productRepo  product.Repository
	notifier     notification.Sender
	assetBaseURL string
}

func NewService(
	repo Repository,
	orderRepo order.Repository,
	productRepo product.Repository,
	notifier notification.Sender,
	assetBaseURL string,
) Service {
	return &service{
		repo:         repo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		notifier:     notifier,
		assetBaseURL: assetBaseURL,
	}
}

func (s *service) Get(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error) {
	return s.repo.Get(ctx, orderShopID)
}

func (s *service) List(ctx context.Context) ([]*OrderShop, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*OrderShop, error) {
	return s.repo.ListByShop(ctx, shopID)
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *service) ListFiltered(ctx context.Context, filter *FilterInput, limit, page int32) ([]*OrderShop, error) {
	return s.repo.ListFiltered(ctx, filter, limit, page)
}

func (s *service) GetDetails(ctx context.Context, orderShopID uuid.UUID) ([]DetailView, error) {
	details, err := s.repo.ListDetails(ctx, orderShopID)
	if err != nil {
		return nil, err
	}

	views := make([]DetailView, 0, len(details))
	for _, d := range details {
		summary, err := s.productRepo.GetSummaryByVariant(ctx, d.VariantID)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			summary.Images = utils.ResolveImageURLs(s.assetBaseURL, summary.Images)
		}
		views = append(views, DetailView{Detail: d, Product: summary})
	}

	return views, nil
}

func (s *service) Confirm(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Confirm"),
		zap.String("order_shop_id", orderShopID.String()),
	)

	shop, err := s.repo.Get(ctx, orderShopID)
	if err != nil {
		return nil, err
	}

	if shop.Status != StatusPending {
		log.Warn("confirm rejected, sub-order is not pending",
			zap.String("status", string(shop.Status)),
		)
		return nil, fmt.Errorf("order shop is %s: %w", shop.Status, ErrInvalidStateTransition)
	}

	var details []OrderDetail
	if !shop.StockDeducted {
		details, err = s.repo.ListDetails(ctx, orderShopID)
		if err != nil {
			return nil, err
		}
		if len(details) == 0 {
			return nil, ErrEmptyOrder
		}
	} else {
		log.Info("stock already deducted, skipping deduction")
	}

	if err := s.repo.ConfirmTx(ctx, shop, details, ConfirmNote); err != nil {
		return nil, err
	}

	if err := s.syncParent(ctx, shop.OrderID); err != nil {
		return nil, fmt.Errorf("confirmed but failed to sync parent order: %w", err)
	}

	confirmed, err := s.repo.Get(ctx, orderShopID)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmed(confirmed)

	return confirmed, nil
}

// notifyConfirmed fires the confirmation event without blocking the request.
func (s *service) notifyConfirmed(shop *OrderShop) {
	confirmedAt := time.Now()
	if shop.ConfirmedAt != nil {
		confirmedAt = *shop.ConfirmedAt
	}

	event := notification.ConfirmedEvent{
		OrderID:     shop.OrderID,
		OrderShopID: shop.ID,
		ShopName:    shop.ShopName,
		ConfirmedAt: confirmedAt,
	}

	go func() {
		if err := s.notifier.OrderShopConfirmed(context.Background(), event); err != nil {
			logger.L().Warn("confirmation notification failed",
				zap.String("order_shop_id", event.OrderShopID.String()),
				zap.Error(err),
			)
		}
	}()
}

func (s *service) ConfirmAllForOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmAllForOrder"),
		zap.String("order_id", orderID.String()),
	)

	shops, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var confirmed []*OrderShop
	for _, shop := range shops {
		if shop.Status != StatusPending {
			continue
		}

		result, err := s.Confirm(ctx, shop.ID)
		if err != nil {
			log.Warn("batch confirm skipped sub-order",
				zap.String("order_shop_id", shop.ID.String()),
				zap.Error(err),
			)
			continue
		}
		confirmed = append(confirmed, result)
	}

	log.Info("batch confirm finished",
		zap.Int("total", len(shops)),
		zap.Int("confirmed", len(confirmed)),
	)

	return confirmed, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderShopID uuid.UUID, status Status, note string) (*OrderShop, error) {
	if !status.Valid() || !status.Updatable() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	current, err := s.repo.Get(ctx, orderShopID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, status) {
		return nil, fmt.Errorf("cannot move %s to %s: %w", current.Status, status, ErrInvalidStateTransition)
	}

	if note == "" {
		note = DefaultNote(status)
	}

	if err := s.repo.UpdateStatus(ctx, orderShopID, status, note); err != nil {
		return nil, err
	}

	shop, err := s.repo.Get(ctx, orderShopID)
	if err != nil {
		return nil, err
	}

	if err := s.syncParent(ctx, shop.OrderID); err != nil {
		return nil, fmt.Errorf("updated but failed to sync parent order: %w", err)
	}

	return shop, nil
}

func (s *service) Cancel(ctx context.Context, orderShopID uuid.UUID, note string) (*OrderShop, error) {
	return s.UpdateStatus(ctx, orderShopID, StatusCancelled, note)
}

func (s *service) Refund(ctx context.Context, orderShopID uuid.UUID, note string) (*OrderShop, error) {
	return s.UpdateStatus(ctx, orderShopID, StatusRefund, note)
}

func (s *service) Delete(ctx context.Context, orderShopID uuid.UUID) error {
	shop, err := s.repo.Get(ctx, orderShopID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTx(ctx, orderShopID); err != nil {
		return err
	}

	if err := s.syncParent(ctx, shop.OrderID); err != nil {
		return fmt.Errorf("deleted but failed to sync parent order: %w", err)
	}

	return nil
}

// syncParent re-derives the parent order's status from its remaining
// sub-orders and writes it back only on change. An order with no sub-orders
// left is left untouched.
func (s *service) syncParent(ctx context.Context, orderID uuid.UUID) error {
	statuses, err := s.repo.ListStatusesByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	derived, ok := DeriveOrderStatus(statuses)
	if !ok {
		return nil
	}

	current, err := s.orderRepo.GetStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if current == derived {
		return nil
	}

	logger.FromCtx(ctx).Info("cascading order status from sub-orders",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(current)),
		zap.String("to", string(derived)),
	)

	return s.orderRepo.UpdateStatus(ctx, orderID, derived, SyncNote)
}
