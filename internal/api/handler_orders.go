package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/store"
)

type orderListItem struct {
	model.Order
	Files []string `json:"files"`
}

// ListOrders returns a filtered, paginated listing with the original file
// names aggregated per row.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, pagination, err := h.store.ListOrders(c.Request.Context(), listParams(c))
	if err != nil {
		log.Printf("list orders failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items := make([]orderListItem, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.Files))
		for _, f := range o.Files {
			names = append(names, f.OriginalName)
		}
		items = append(items, orderListItem{Order: o, Files: names})
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     items,
		"pagination": pagination,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("get order %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderRequest struct {
	Status   *string `json:"status"`
	Progress *int    `json:"progress"`
	Notes    *string `json:"notes"`
}

// UpdateOrder applies a partial update of status, progress, and notes. At
// least one field must be supplied.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Status != nil && !model.ValidOrderStatus(*req.Status) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Progress must be between 0 and 100"})
		return
	}

	order, err := h.store.UpdateOrder(c.Request.Context(), id, store.OrderUpdate{
		Status:   req.Status,
		Progress: req.Progress,
		Notes:    req.Notes,
	})
	if errors.Is(err, store.ErrNoFields) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No updates provided"})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		log.Printf("update order %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// OrderStats returns the dashboard aggregate.
func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.store.OrderStats(c.Request.Context())
	if err != nil {
		log.Printf("order stats failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
