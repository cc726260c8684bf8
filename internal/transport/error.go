package transport

import (
	"errors"
	"net/http"

	"mekong-be/internal/order"
	"mekong-be/internal/ordershop"
	"mekong-be/internal/stock"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto the HTTP status convention:
// 404 missing entity, 400 violated precondition or bad input, 403 failed role
// check, 500 anything unexpected.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ordershop.ErrOrderShopNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, ordershop.ErrInvalidStatus),
		errors.Is(err, ordershop.ErrInvalidStateTransition),
		errors.Is(err, ordershop.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidStateTransition),
		errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, stock.ErrStockNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
