package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_OrderShopConfirmed(t *testing.T) {
	event := ConfirmedEvent{
		OrderID:     uuid.New(),
		OrderShopID: uuid.New(),
		ShopName:    "Shop Hoa Sen",
		ConfirmedAt: time.Now(),
	}

	t.Run("Delivered", func(t *testing.T) {
		var received ConfirmedEvent

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/events/order-shop-confirmed", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		sender := NewHTTPSender(srv.URL)
		err := sender.OrderShopConfirmed(context.Background(), event)
		require.NoError(t, err)

		assert.Equal(t, event.OrderShopID, received.OrderShopID)
		assert.Equal(t, event.ShopName, received.ShopName)
	})

	t.Run("RejectedByService", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		sender := NewHTTPSender(srv.URL)
		err := sender.OrderShopConfirmed(context.Background(), event)
		assert.Error(t, err)
	})
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.OrderShopConfirmed(context.Background(), ConfirmedEvent{}))
}
