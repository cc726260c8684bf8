package notification

import (
	"context"
	"fmt"
	"time"

	"mekong-be/internal/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type httpSender struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPSender posts events to the notification service at baseURL.
func NewHTTPSender(baseURL string) Sender {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &httpSender{
		client:  client,
		baseURL: baseURL,
	}
}

func (s *httpSender) OrderShopConfirmed(ctx context.Context, event ConfirmedEvent) error {
	log := logger.FromCtx(ctx).With(
		zap.String("order_shop_id", event.OrderShopID.String()),
		zap.String("shop_name", event.ShopName),
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(s.baseURL + "/events/order-shop-confirmed")
	if err != nil {
		log.Warn("failed to deliver confirmation event", zap.Error(err))
		return err
	}

	if resp.IsError() {
		log.Warn("notification service rejected event",
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Errorf("notification service returned %d", resp.StatusCode())
	}

	log.Debug("confirmation event delivered")
	return nil
}
