package product

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetSummaryByVariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	variantID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		productID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("JOIN products p ON p.id = v.product_id")).
			WithArgs(variantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "images"}).
				AddRow(productID.String(), "Áo thun nam", "120000", "{products/ao-thun.jpg,products/ao-thun-2.jpg}"))

		s, err := repo.GetSummaryByVariant(ctx, variantID)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, productID, s.ID)
		assert.Equal(t, "Áo thun nam", s.Name)
		assert.Equal(t, "120000", s.Price.String())
		assert.Equal(t, []string{"products/ao-thun.jpg", "products/ao-thun-2.jpg"}, s.Images)
	})

	t.Run("VariantGone", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("JOIN products p ON p.id = v.product_id")).
			WithArgs(variantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "images"}))

		s, err := repo.GetSummaryByVariant(ctx, variantID)
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}
