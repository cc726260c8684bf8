package stock

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, variantID, sizeID uuid.UUID) (*Entry, error)

	// DecrementTx applies a conditional decrement inside the caller's
	// transaction. The decrement only succeeds when the current quantity is at
	// least qty; otherwise ErrInsufficientStock or ErrStockNotFound.
	DecrementTx(ctx context.Context, tx *sql.Tx, variantID, sizeID uuid.UUID, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, variantID, sizeID uuid.UUID) (*Entry, error) {
	query := `
		SELECT variant_id, size_id, color, size_label, quantity, sku
		FROM variant_sizes
		WHERE variant_id = $1 AND size_id = $2
	`

	var e Entry
	err := r.db.QueryRowContext(ctx, query, variantID, sizeID).
		Scan(&e.VariantID, &e.SizeID, &e.Color, &e.Size, &e.Quantity, &e.SKU)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStockNotFound
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) DecrementTx(ctx context.Context, tx *sql.Tx, variantID, sizeID uuid.UUID, qty int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE variant_sizes
		SET quantity = quantity - $1
		WHERE variant_id = $2 AND size_id = $3 AND quantity >= $1
	`, qty, variantID, sizeID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: tell a missing row apart from a short one.
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM variant_sizes WHERE variant_id = $1 AND size_id = $2
		)
	`, variantID, sizeID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrStockNotFound
	}
	return ErrInsufficientStock
}
