package transport

import (
	"net/http"
	"time"

	"mekong-be/internal/order"
	"mekong-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) List(c *gin.Context) {
	var filter order.FilterInput

	if status := c.Query("status"); status != "" {
		s := order.Status(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &s
	}

	if fromDate := c.Query("fromDate"); fromDate != "" {
		from, err := time.Parse("2006-01-02", fromDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate"})
			return
		}
		filter.DateFrom = &from
	}

	var limit, page int32
	if v, err := utils.ToUint(c.DefaultQuery("limit", "20")); err == nil {
		limit = int32(v)
	}
	if v, err := utils.ToUint(c.DefaultQuery("page", "1")); err == nil {
		page = int32(v)
	}

	orders, err := h.svc.List(c.Request.Context(), &filter, nil, limit, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	o, err := h.svc.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.svc.SetStatus(c.Request.Context(), id, order.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": o})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	// The admin flag only takes effect for callers actually holding the role.
	admin := c.Query("admin") == "true" && utils.IsAdmin(c.Request.Context())

	if err := h.svc.Cancel(c.Request.Context(), id, req.Reason, admin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order cancelled"})
}

func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

type paymentCallbackRequest struct {
	TransactionCode string `json:"transaction_code" binding:"required"`
	Status          string `json:"status" binding:"required"`
}

// PaymentCallback is invoked by the payment gateway after charge settlement.
func (h *OrderHandler) PaymentCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.Status {
	case "paid":
		err = h.svc.MarkPaid(c.Request.Context(), req.TransactionCode)
	case "failed":
		err = h.svc.MarkFailed(c.Request.Context(), req.TransactionCode)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be paid or failed"})
		return
	}

	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "callback processed"})
}
