package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"mekong-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetStatus(ctx context.Context, orderID uuid.UUID) (Status, error)
	GetByTransactionCode(ctx context.Context, code string) (*Order, error)
	List(ctx context.Context, filter *FilterInput, sort *SortInput, limit, page int32) ([]*Order, error)

	// UpdateStatus writes the new status and appends a history entry in one
	// transaction.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status, note string) error

	// UpdateStatusGuarded is UpdateStatus conditioned on the current status;
	// returns false when the guard did not match.
	UpdateStatusGuarded(ctx context.Context, orderID uuid.UUID, from, to Status, note string) (bool, error)

	// Cancel sets status to cancelled and records the reason.
	Cancel(ctx context.Context, orderID uuid.UUID, reason, note string) error

	UpdateTransactionStatus(ctx context.Context, code string, status TransactionStatus) error

	// Delete removes a cancelled order; order_shops and order_details cascade.
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	query := `
		SELECT
			id, user_id, address_id, voucher_id, total_price, status,
			payment_method, transaction_code, transaction_status,
			delivery_date, cancel_reason, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID, &o.UserID, &o.AddressID, &o.VoucherID, &o.TotalPrice, &o.Status,
		&o.PaymentMethod, &o.TransactionCode, &o.TransactionStatus,
		&o.DeliveryDate, &o.CancelReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	history, err := r.loadHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.History = history

	return &o, nil
}

func (r *repository) loadHistory(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, note, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
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

func (r *repository) GetStatus(ctx context.Context, orderID uuid.UUID) (Status, error) {
	var status Status
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1`, orderID,
	).Scan(&status)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return status, err
}

func (r *repository) GetByTransactionCode(ctx context.Context, code string) (*Order, error) {
	var orderID uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE transaction_code = $1`, code,
	).Scan(&orderID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, orderID)
}

func (r *repository) List(
	ctx context.Context,
	filter *FilterInput,
	sort *SortInput,
	limit, page int32,
) ([]*Order, error) {

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

	log := logger.FromCtx(ctx).With(
		zap.String("method", "ListOrders"),
		zap.Int32("limit", limit),
		zap.Int32("page", page),
	)

	query := `
		SELECT
			o.id, o.user_id, o.total_price, o.status,
			o.payment_method, o.transaction_status,
			o.created_at, o.updated_at
		FROM orders o
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	if filter != nil {
		if filter.UserID != nil {
			query += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
			args = append(args, *filter.UserID)
			argIndex++
		}

		if filter.Status != nil && *filter.Status != "" {
			query += fmt.Sprintf(" AND o.status = $%d", argIndex)
			args = append(args, *filter.Status)
			argIndex++
		}

		if filter.DateFrom != nil {
			query += fmt.Sprintf(" AND o.created_at >= $%d", argIndex)
			args = append(args, *filter.DateFrom)
			argIndex++
		}

		if filter.DateTo != nil {
			query += fmt.Sprintf(" AND o.created_at <= $%d", argIndex)
			args = append(args, *filter.DateTo)
			argIndex++
		}
	}

	orderBy := "o.created_at DESC"
	if sort != nil {
		dir := strings.ToUpper(sort.Direction)
		if dir != "ASC" && dir != "DESC" {
			dir = "DESC"
		}

		switch sort.Field {
		case SortFieldTotal:
			orderBy = "o.total_price " + dir
		case SortFieldCreatedAt:
			orderBy = "o.created_at " + dir
		}
	}

	query += " ORDER BY " + orderBy
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.TotalPrice, &o.Status,
			&o.PaymentMethod, &o.TransactionStatus,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("list orders success", zap.Int("count", len(orders)))

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status Status, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := appendHistoryTx(ctx, tx, orderID, status, note); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) UpdateStatusGuarded(
	ctx context.Context,
	orderID uuid.UUID,
	from, to Status,
	note string,
) (bool, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, orderID, from)
	if err != nil {
		return false, err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return false, nil
	}

	if err := appendHistoryTx(ctx, tx, orderID, to, note); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *repository) Cancel(ctx context.Context, orderID uuid.UUID, reason, note string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, cancel_reason = $2, updated_at = NOW()
		WHERE id = $3
	`, StatusCancelled, reason, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}

	if err := appendHistoryTx(ctx, tx, orderID, StatusCancelled, note); err != nil {
		return err
	}

	return tx.Commit()
}

func appendHistoryTx(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status Status, note string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (id, order_id, status, note, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, uuid.New(), orderID, status, note)
	return err
}

func (r *repository) UpdateTransactionStatus(ctx context.Context, code string, status TransactionStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET transaction_status = $1, updated_at = NOW()
		WHERE transaction_code = $2
	`, status, code)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no order found with transaction code %s: %w", code, ErrOrderNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, orderID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
