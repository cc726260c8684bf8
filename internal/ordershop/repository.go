package ordershop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mekong-be/internal/logger"
	"mekong-be/internal/stock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error)
	List(ctx context.Context) ([]*OrderShop, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]*OrderShop, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error)
	ListFiltered(ctx context.Context, filter *FilterInput, limit, page int32) ([]*OrderShop, error)
	ListStatusesByOrder(ctx context.Context, orderID uuid.UUID) ([]Status, error)
	ListDetails(ctx context.Context, orderShopID uuid.UUID) ([]OrderDetail, error)

	// UpdateStatus writes the new status and appends a history entry in one
	// transaction.
	UpdateStatus(ctx context.Context, orderShopID uuid.UUID, status Status, note string) error

	// ConfirmTx performs the whole confirmation in one transaction: a
	// pending-guarded status flip to preparing, the conditional stock
	// decrement per line item, and the history append. Any failed decrement
	// rolls back everything. The pending guard doubles as the lock against two
	// confirms racing on the same sub-order.
	ConfirmTx(ctx context.Context, shop *OrderShop, details []OrderDetail, note string) error

	// DeleteTx removes the sub-order and all of its line items.
	DeleteTx(ctx context.Context, orderShopID uuid.UUID) error
}

type repository struct {
	db        *sql.DB
	stockRepo stock.Repository
}

func NewRepository(db *sql.DB, stockRepo stock.Repository) Repository {
	return &repository{db: db, stockRepo: stockRepo}
}

const shopColumns = `
	os.id, os.order_id, os.shop_id, COALESCE(s.name, ''),
	os.total_price, os.status, os.stock_deducted, os.confirmed_at,
	os.created_at, os.updated_at
`

func scanShop(row interface{ Scan(...any) error }) (*OrderShop, error) {
	var o OrderShop
	err := row.Scan(
		&o.ID, &o.OrderID, &o.ShopID, &o.ShopName,
		&o.TotalPrice, &o.Status, &o.StockDeducted, &o.ConfirmedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, orderShopID uuid.UUID) (*OrderShop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM order_shops os
		LEFT JOIN shops s ON s.id = os.shop_id
		WHERE os.id = $1
	`

	shop, err := scanShop(r.db.QueryRowContext(ctx, query, orderShopID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderShopNotFound
	}
	if err != nil {
		return nil, err
	}

	history, err := r.loadHistory(ctx, orderShopID)
	if err != nil {
		return nil, err
	}
	shop.History = history

	return shop, nil
}

func (r *repository) loadHistory(ctx context.Context, orderShopID uuid.UUID) ([]StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, note, created_at
		FROM order_shop_status_history
		WHERE order_shop_id = $1
		ORDER BY created_at ASC
	`, orderShopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []StatusHistory
	for rows.Next() {
		var h StatusHistory
		if err := rows.Scan(&h.Status, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}

	return history, rows.Err()
}

func (r *repository) queryShops(ctx context.Context, query string, args ...any) ([]*OrderShop, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*OrderShop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, shop)
	}

	return shops, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]*OrderShop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+`
		FROM order_shops os
		LEFT JOIN shops s ON s.id = os.shop_id
		ORDER BY os.created_at DESC
	`)
}

func (r *repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*OrderShop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+`
		FROM order_shops os
		LEFT JOIN shops s ON s.id = os.shop_id
		WHERE os.shop_id = $1
		ORDER BY os.created_at DESC
	`, shopID)
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderShop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+`
		FROM order_shops os
		LEFT JOIN shops s ON s.id = os.shop_id
		WHERE os.order_id = $1
		ORDER BY os.created_at ASC
	`, orderID)
}

func (r *repository) ListFiltered(
	ctx context.Context,
	filter *FilterInput,
	limit, page int32,
) ([]*OrderShop, error) {

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT ` + shopColumns + `
		FROM order_shops os
		LEFT JOIN shops s ON s.id = os.shop_id
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.ShopID != nil {
			query += fmt.Sprintf(" AND os.shop_id = $%d", argIndex)
			args = append(args, *filter.ShopID)
			argIndex++
		}

		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND os.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND os.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND os.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	query += " ORDER BY os.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	return r.queryShops(ctx, query, args...)
}

func (r *repository) ListStatusesByOrder(ctx context.Context, orderID uuid.UUID) ([]Status, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status FROM order_shops WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

func (r *repository) ListDetails(ctx context.Context, orderShopID uuid.UUID) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, order_shop_id, shop_id, product_id, variant_id, size_id, quantity
		FROM order_details
		WHERE order_shop_id = $1
		ORDER BY created_at ASC
	`, orderShopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.OrderShopID, &d.ShopID,
			&d.ProductID, &d.VariantID, &d.SizeID, &d.Quantity,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderShopID uuid.UUID, status Status, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE order_shops
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderShopID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderShopNotFound
	}

	if err := appendHistoryTx(ctx, tx, orderShopID, status, note); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ConfirmTx(ctx context.Context, shop *OrderShop, details []OrderDetail, note string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ConfirmTx"),
		zap.String("order_shop_id", shop.ID.String()),
		zap.Int("item_count", len(details)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback confirm transaction", zap.Error(rbErr))
			}
		}
	}()

	// The status guard makes the flip atomic: a concurrent confirm that lost
	// the race sees zero rows here.
	res, err := tx.ExecContext(ctx, `
		UPDATE order_shops
		SET status = $1, stock_deducted = TRUE, confirmed_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusPreparing, shop.ID, StatusPending)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrInvalidStateTransition
	}

	// Skip deduction when a previous confirm already took the stock.
	if !shop.StockDeducted {
		for _, d := range details {
			if err := r.stockRepo.DecrementTx(ctx, tx, d.VariantID, d.SizeID, d.Quantity); err != nil {
				log.Warn("stock decrement failed, rolling back",
					zap.String("variant_id", d.VariantID.String()),
					zap.String("size_id", d.SizeID.String()),
					zap.Int("quantity", d.Quantity),
					zap.Error(err),
				)
				return err
			}
		}
	}

	if err := appendHistoryTx(ctx, tx, shop.ID, StatusPreparing, note); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	committed = true
	log.Info("order shop confirmed")

	return nil
}

func (r *repository) DeleteTx(ctx context.Context, orderShopID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_details WHERE order_shop_id = $1
	`, orderShopID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_shop_status_history WHERE order_shop_id = $1
	`, orderShopID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM order_shops WHERE id = $1
	`, orderShopID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderShopNotFound
	}

	return tx.Commit()
}

func appendHistoryTx(ctx context.Context, tx *sql.Tx, orderShopID uuid.UUID, status Status, note string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_shop_status_history (id, order_shop_id, status, note, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, uuid.New(), orderShopID, status, note)
	return err
}
