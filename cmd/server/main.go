package main

import (
	"log"

	"mekong-be/internal/config"
	"mekong-be/internal/db"
	"mekong-be/internal/logger"
	"mekong-be/internal/notification"
	"mekong-be/internal/order"
	"mekong-be/internal/ordershop"
	"mekong-be/internal/product"
	"mekong-be/internal/stock"
	"mekong-be/internal/transport"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg.DSN())
	defer database.Close()

	stockRepo := stock.NewRepository(database)
	productRepo := product.NewRepository(database)
	orderRepo := order.NewRepository(database)
	orderShopRepo := ordershop.NewRepository(database, stockRepo)

	var notifier notification.Sender = notification.Noop{}
	if cfg.NotificationURL != "" {
		notifier = notification.NewHTTPSender(cfg.NotificationURL)
	}

	orderSvc := order.NewService(orderRepo)
	orderShopSvc := ordershop.NewService(orderShopRepo, orderRepo, productRepo, notifier, cfg.AssetBaseURL)

	router := transport.NewRouter(
		transport.NewOrderShopHandler(orderShopSvc),
		transport.NewOrderHandler(orderSvc),
		cfg.JWTSecret,
	)

	log.Printf("🚀 Order service running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
