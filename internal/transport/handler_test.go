package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mekong-be/internal/order"
	"mekong-be/internal/ordershop"
	"mekong-be/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// orderShopServiceStub implements ordershop.Service with overridable funcs so
// each test wires only the calls it expects.
type orderShopServiceStub struct {
	getFn          func(ctx context.Context, id uuid.UUID) (*ordershop.OrderShop, error)
	listFn         func(ctx context.Context) ([]*ordershop.OrderShop, error)
	listByShopFn   func(ctx context.Context, shopID uuid.UUID) ([]*ordershop.OrderShop, error)
	listByOrderFn  func(ctx context.Context, orderID uuid.UUID) ([]*ordershop.OrderShop, error)
	listFilteredFn func(ctx context.Context, filter *ordershop.FilterInput, limit, page int32) ([]*ordershop.OrderShop, error)
	getDetailsFn   func(ctx context.Context, id uuid.UUID) ([]ordershop.DetailView, error)
	confirmFn      func(ctx context.Context, id uuid.UUID) (*ordershop.OrderShop, error)
	confirmAllFn   func(ctx context.Context, orderID uuid.UUID) ([]*ordershop.OrderShop, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status ordershop.Status, note string) (*ordershop.OrderShop, error)
	cancelFn       func(ctx context.Context, id uuid.UUID, note string) (*ordershop.OrderShop, error)
	refundFn       func(ctx context.Context, id uuid.UUID, note string) (*ordershop.OrderShop, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (s *orderShopServiceStub) Get(ctx context.Context, id uuid.UUID) (*ordershop.OrderShop, error) {
	return s.getFn(ctx, id)
}

func (s *orderShopServiceStub) List(ctx context.Context) ([]*ordershop.OrderShop, error) {
	return s.listFn(ctx)
}

func (s *orderShopServiceStub) ListByShop(ctx context.Context, shopID uuid.UUID) ([]*ordershop.OrderShop, error) {
	return s.listByShopFn(ctx, shopID)
}

func (s *orderShopServiceStub) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*ordershop.OrderShop, error) {
	return s.listByOrderFn(ctx, orderID)
}

func (s *orderShopServiceStub) ListFiltered(ctx context.Context, filter *ordershop.FilterInput, limit, page int32) ([]*ordershop.OrderShop, error) {
	return s.listFilteredFn(ctx, filter, limit, page)
}

func (s *orderShopServiceStub) GetDetails(ctx context.Context, id uuid.UUID) ([]ordershop.DetailView, error) {
	return s.getDetailsFn(ctx, id)
}

func (s *orderShopServiceStub) Confirm(ctx context.Context, id uuid.UUID) (*ordershop.OrderShop, error) {
	return s.confirmFn(ctx, id)
}

func (s *orderShopServiceStub) ConfirmAllForOrder(ctx context.Context, orderID uuid.UUID) ([]*ordershop.OrderShop, error) {
	return s.confirmAllFn(ctx, orderID)
}

func (s *orderShopServiceStub) UpdateStatus(ctx context.Context, id uuid.UUID, status ordershop.Status, note string) (*ordershop.OrderShop, error) {
	return s.updateStatusFn(ctx, id, status, note)
}

func (s *orderShopServiceStub) Cancel(ctx context.Context, id uuid.UUID, note string) (*ordershop.OrderShop, error) {
	return s.cancelFn(ctx, id, note)
}

func (s *orderShopServiceStub) Refund(ctx context.Context, id uuid.UUID, note string) (*ordershop.OrderShop, error) {
	return s.refundFn(ctx, id, note)
}

func (s *orderShopServiceStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

type orderServiceStub struct {
	getFn        func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	listFn       func(ctx context.Context, filter *order.FilterInput, sort *order.SortInput, limit, page int32) ([]*order.Order, error)
	confirmFn    func(ctx context.Context, id uuid.UUID) (*order.Order, error)
	setStatusFn  func(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error)
	cancelFn     func(ctx context.Context, id uuid.UUID, reason string, admin bool) error
	deleteFn     func(ctx context.Context, id uuid.UUID) error
	markPaidFn   func(ctx context.Context, code string) error
	markFailedFn func(ctx context.Context, code string) error
}

func (s *orderServiceStub) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.getFn(ctx, id)
}

func (s *orderServiceStub) List(ctx context.Context, filter *order.FilterInput, sort *order.SortInput, limit, page int32) ([]*order.Order, error) {
	return s.listFn(ctx, filter, sort, limit, page)
}

func (s *orderServiceStub) Confirm(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.confirmFn(ctx, id)
}

func (s *orderServiceStub) SetStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error) {
	return s.setStatusFn(ctx, id, status)
}

func (s *orderServiceStub) Cancel(ctx context.Context, id uuid.UUID, reason string, admin bool) error {
	return s.cancelFn(ctx, id, reason, admin)
}

func (s *orderServiceStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func (s *orderServiceStub) MarkPaid(ctx context.Context, code string) error {
	return s.markPaidFn(ctx, code)
}

func (s *orderServiceStub) MarkFailed(ctx context.Context, code string) error {
	return s.markFailedFn(ctx, code)
}

func newTestRouter(shopSvc ordershop.Service, orderSvc order.Service) *gin.Engine {
	return NewRouter(NewOrderShopHandler(shopSvc), NewOrderHandler(orderSvc), "test-secret")
}

var deviceSeq int

// doRequest sends one request with a unique device id so the per-identity rate
// limiter never throttles across tests.
func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	deviceSeq++
	req.Header.Set("X-Device-ID", fmt.Sprintf("test-device-%d", deviceSeq))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{})

	w := doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderShopRoutes_ErrorMapping(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"NotFound", ordershop.ErrOrderShopNotFound, http.StatusNotFound},
		{"InvalidTransition", fmt.Errorf("order shop is preparing: %w", ordershop.ErrInvalidStateTransition), http.StatusBadRequest},
		{"EmptyOrder", ordershop.ErrEmptyOrder, http.StatusBadRequest},
		{"InsufficientStock", stock.ErrInsufficientStock, http.StatusBadRequest},
		{"Internal", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&orderShopServiceStub{
				confirmFn: func(ctx context.Context, _ uuid.UUID) (*ordershop.OrderShop, error) {
					return nil, tc.err
				},
			}, &orderServiceStub{})

			w := doRequest(r, http.MethodPatch, "/order-shops/"+id.String()+"/confirm", "")
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestOrderShopHandler_Confirm(t *testing.T) {
	shop := &ordershop.OrderShop{
		ID:     uuid.New(),
		Status: ordershop.StatusPreparing,
	}

	var gotID uuid.UUID
	r := newTestRouter(&orderShopServiceStub{
		confirmFn: func(ctx context.Context, id uuid.UUID) (*ordershop.OrderShop, error) {
			gotID = id
			return shop, nil
		},
	}, &orderServiceStub{})

	w := doRequest(r, http.MethodPatch, "/order-shops/"+shop.ID.String()+"/confirm", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shop.ID, gotID)

	var resp struct {
		Data ordershop.OrderShop `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ordershop.StatusPreparing, resp.Data.Status)
}

func TestOrderShopHandler_BadID(t *testing.T) {
	r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{})

	w := doRequest(r, http.MethodPatch, "/order-shops/not-a-uuid/confirm", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderShopHandler_UpdateStatus(t *testing.T) {
	t.Run("MissingStatus", func(t *testing.T) {
		r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{})

		w := doRequest(r, http.MethodPatch, "/order-shops/"+uuid.NewString()+"/status", `{"note":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PassesStatusAndNote", func(t *testing.T) {
		var gotStatus ordershop.Status
		var gotNote string

		r := newTestRouter(&orderShopServiceStub{
			updateStatusFn: func(ctx context.Context, id uuid.UUID, status ordershop.Status, note string) (*ordershop.OrderShop, error) {
				gotStatus = status
				gotNote = note
				return &ordershop.OrderShop{ID: id, Status: status}, nil
			},
		}, &orderServiceStub{})

		w := doRequest(r, http.MethodPatch, "/order-shops/"+uuid.NewString()+"/status",
			`{"status":"shipping","note":"đã bàn giao cho shipper"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, ordershop.StatusShipping, gotStatus)
		assert.Equal(t, "đã bàn giao cho shipper", gotNote)
	})
}

func TestOrderShopHandler_Filter(t *testing.T) {
	t.Run("InvalidStatus", func(t *testing.T) {
		r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{})

		w := doRequest(r, http.MethodGet, "/order-shops/filter?status=shipped", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ParsesQuery", func(t *testing.T) {
		shopID := uuid.New()
		var gotFilter *ordershop.FilterInput
		var gotLimit, gotPage int32

		r := newTestRouter(&orderShopServiceStub{
			listFilteredFn: func(ctx context.Context, filter *ordershop.FilterInput, limit, page int32) ([]*ordershop.OrderShop, error) {
				gotFilter = filter
				gotLimit = limit
				gotPage = page
				return nil, nil
			},
		}, &orderServiceStub{})

		path := fmt.Sprintf("/order-shops/filter?shop_id=%s&status=pending&fromDate=2026-08-01&limit=50&page=2", shopID)
		w := doRequest(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code)

		require.NotNil(t, gotFilter)
		require.NotNil(t, gotFilter.ShopID)
		assert.Equal(t, shopID, *gotFilter.ShopID)
		require.NotNil(t, gotFilter.Status)
		assert.Equal(t, ordershop.StatusPending, *gotFilter.Status)
		require.NotNil(t, gotFilter.DateFrom)
		assert.Equal(t, int32(50), gotLimit)
		assert.Equal(t, int32(2), gotPage)
	})
}

func TestOrderHandler_PaymentCallback(t *testing.T) {
	t.Run("Paid", func(t *testing.T) {
		var gotCode string
		r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{
			markPaidFn: func(ctx context.Context, code string) error {
				gotCode = code
				return nil
			},
		})

		w := doRequest(r, http.MethodPost, "/orders/payment-callback",
			`{"transaction_code":"TXN-123","status":"paid"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "TXN-123", gotCode)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{})

		w := doRequest(r, http.MethodPost, "/orders/payment-callback",
			`{"transaction_code":"TXN-123","status":"pending"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{
			markFailedFn: func(ctx context.Context, code string) error {
				return order.ErrOrderNotFound
			},
		})

		w := doRequest(r, http.MethodPost, "/orders/payment-callback",
			`{"transaction_code":"TXN-404","status":"failed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_Cancel(t *testing.T) {
	// Without an authenticated admin the query flag must not escalate.
	var gotAdmin bool
	r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{
		cancelFn: func(ctx context.Context, id uuid.UUID, reason string, admin bool) error {
			gotAdmin = admin
			return nil
		},
	})

	w := doRequest(r, http.MethodPatch, "/orders/"+uuid.NewString()+"/cancel?admin=true",
		`{"reason":"hết nhu cầu"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, gotAdmin)
}

func TestOrderHandler_Unauthorized(t *testing.T) {
	r := newTestRouter(&orderShopServiceStub{}, &orderServiceStub{
		getFn: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
			return nil, fmt.Errorf("cannot access others' orders: %w", order.ErrUnauthorized)
		},
	})

	w := doRequest(r, http.MethodGet, "/orders/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
