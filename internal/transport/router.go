package transport

import (
	"net/http"

	"mekong-be/internal/logger"
	"mekong-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface: order-shop workflow routes and the legacy
// whole-order routes.
func NewRouter(
	orderShopHandler *OrderShopHandler,
	orderHandler *OrderHandler,
	jwtSecret string,
) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	shops := r.Group("/order-shops")
	{
		shops.GET("", orderShopHandler.List)
		shops.GET("/filter", orderShopHandler.Filter)
		shops.GET("/shop/:shopId", orderShopHandler.ListByShop)
		shops.GET("/order/:orderId", orderShopHandler.ListByOrder)
		shops.PATCH("/order/:orderId/confirm-all", orderShopHandler.ConfirmAllForOrder)
		shops.GET("/:id", orderShopHandler.Get)
		shops.GET("/:id/details", orderShopHandler.GetDetails)
		shops.PATCH("/:id/status", orderShopHandler.UpdateStatus)
		shops.PATCH("/:id/confirm", orderShopHandler.Confirm)
		shops.PATCH("/:id/cancel", orderShopHandler.Cancel)
		shops.PATCH("/:id/refund", orderShopHandler.Refund)
		shops.DELETE("/:id", orderShopHandler.Delete)
	}

	orders := r.Group("/orders")
	{
		orders.GET("", orderHandler.List)
		orders.POST("/payment-callback", orderHandler.PaymentCallback)
		orders.GET("/:id", orderHandler.Get)
		orders.PATCH("/:id/confirm", orderHandler.Confirm)
		orders.PATCH("/:id/status", orderHandler.SetStatus)
		orders.PATCH("/:id/cancel", orderHandler.Cancel)
		orders.DELETE("/:id", orderHandler.Delete)
	}

	return r
}
