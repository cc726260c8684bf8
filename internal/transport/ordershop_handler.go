package transport

import (
	"net/http"
	"time"

	"mekong-be/internal/ordershop"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderShopHandler struct {
	svc ordershop.Service
}

func NewOrderShopHandler(svc ordershop.Service) *OrderShopHandler {
	return &OrderShopHandler{svc: svc}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrderShopHandler) List(c *gin.Context) {
	shops, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

type filterQuery struct {
	ShopID   string `form:"shop_id"`
	Status   string `form:"status"`
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
	Page     int32  `form:"page"`
	Limit    int32  `form:"limit"`
}

func (h *OrderShopHandler) Filter(c *gin.Context) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := &ordershop.FilterInput{}

	if q.ShopID != "" {
		shopID, err := uuid.Parse(q.ShopID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop_id"})
			return
		}
		filter.ShopID = &shopID
	}

	if q.Status != "" {
		status := ordershop.Status(q.Status)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &status
	}

	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate"})
			return
		}
		filter.DateFrom = &from
	}

	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toDate"})
			return
		}
		filter.DateTo = &to
	}

	shops, err := h.svc.ListFiltered(c.Request.Context(), filter, q.Limit, q.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

func (h *OrderShopHandler) ListByShop(c *gin.Context) {
	shopID, ok := parseID(c, "shopId")
	if !ok {
		return
	}

	shops, err := h.svc.ListByShop(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

func (h *OrderShopHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}

	shops, err := h.svc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

func (h *OrderShopHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	shop, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *OrderShopHandler) GetDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	details, err := h.svc.GetDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

func (h *OrderShopHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := h.svc.UpdateStatus(c.Request.Context(), id, ordershop.Status(req.Status), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *OrderShopHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	_ = c.ShouldBindJSON(&req)

	shop, err := h.svc.Cancel(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *OrderShopHandler) Refund(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	_ = c.ShouldBindJSON(&req)

	shop, err := h.svc.Refund(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *OrderShopHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	shop, err := h.svc.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shop})
}

func (h *OrderShopHandler) ConfirmAllForOrder(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}

	shops, err := h.svc.ConfirmAllForOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shops})
}

func (h *OrderShopHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order shop deleted"})
}
