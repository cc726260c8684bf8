package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	// GetSummaryByVariant resolves the product behind a variant. Returns
	// (nil, nil) when the product no longer exists; detail views render a null
	// product in that case.
	GetSummaryByVariant(ctx context.Context, variantID uuid.UUID) (*Summary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetSummaryByVariant(ctx context.Context, variantID uuid.UUID) (*Summary, error) {
	query := `
		SELECT p.id, p.name, p.price, p.images
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id = $1
	`

	var s Summary
	err := r.db.QueryRowContext(ctx, query, variantID).
		Scan(&s.ID, &s.Name, &s.Price, pq.Array(&s.Images))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}
