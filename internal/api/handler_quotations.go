package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/store"
	"fabworks-backend/internal/upload"
)

type createQuotationRequest struct {
	CustomerName  string `form:"customerName" binding:"required"`
	CustomerEmail string `form:"customerEmail" binding:"required,email"`
	CustomerPhone string `form:"customerPhone"`
	ServiceType   string `form:"serviceType" binding:"required"`
	Material      string `form:"material" binding:"required"`
	Quantity      int    `form:"quantity" binding:"required,min=1"`
}

// CreateQuotation accepts a public quote request: multipart form fields plus
// one or more design files. Files are written to disk first; if the database
// transaction fails they are removed again.
func (h *Handler) CreateQuotation(c *gin.Context) {
	var req createQuotationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "At least one file is required"})
		return
	}
	if len(fhs) > h.cfg.Upload.MaxFileCount {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": upload.ErrTooManyFiles.Error()})
		return
	}

	saved, err := h.saver.SaveAll(fhs)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge),
			errors.Is(err, upload.ErrDisallowedType),
			errors.Is(err, upload.ErrMissingFilename):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("create quotation: saving uploads failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	quotation, err := h.store.CreateQuotation(c.Request.Context(), store.CreateQuotationParams{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ServiceType:   req.ServiceType,
		Material:      req.Material,
		Quantity:      req.Quantity,
	}, saved)
	if err != nil {
		upload.Remove(saved)
		if errors.Is(err, store.ErrServiceUnavailable) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Service not available"})
			return
		}
		log.Printf("create quotation failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(quotation.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"quoteId":        quotation.QuoteID,
		"estimatedPrice": quotation.EstimatedPrice,
		"deliveryTime":   quotation.DeliveryTime,
		"message":        "Quote generated successfully",
	})
}

// listParams reads the shared filter/pagination query parameters.
func listParams(c *gin.Context) store.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return store.ListParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
}

type quotationListItem struct {
	model.Quotation
	Files []string `json:"files"`
}

// ListQuotations returns a filtered, paginated listing with the original
// file names aggregated per row.
func (h *Handler) ListQuotations(c *gin.Context) {
	quotations, pagination, err := h.store.ListQuotations(c.Request.Context(), listParams(c))
	if err != nil {
		log.Printf("list quotations failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items := make([]quotationListItem, 0, len(quotations))
	for _, q := range quotations {
		names := make([]string, 0, len(q.Files))
		for _, f := range q.Files {
			names = append(names, f.OriginalName)
		}
		items = append(items, quotationListItem{Quotation: q, Files: names})
	}

	c.JSON(http.StatusOK, gin.H{
		"quotations": items,
		"pagination": pagination,
	})
}

func (h *Handler) GetQuotation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
		return
	}

	quotation, err := h.store.GetQuotation(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
		return
	}
	if err != nil {
		log.Printf("get quotation %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, quotation)
}

type updateQuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *Handler) UpdateQuotationStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
		return
	}

	var req updateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !model.ValidQuotationStatus(req.Status) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	quotation, err := h.store.UpdateQuotationStatus(c.Request.Context(), id, req.Status, req.Notes)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
		return
	}
	if err != nil {
		log.Printf("update quotation %d status failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, quotation)
}

type convertQuotationRequest struct {
	Deadline string `json:"deadline"`
	Notes    string `json:"notes"`
}

// parseDeadline accepts a date-only or RFC3339 deadline.
func parseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConvertQuotation promotes a quotation into an order.
func (h *Handler) ConvertQuotation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid quotation ID"})
		return
	}

	var req convertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline format. Use YYYY-MM-DD or RFC3339."})
		return
	}

	order, err := h.store.ConvertQuotationToOrder(c.Request.Context(), id, deadline, req.Notes)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Quotation not found"})
		return
	}
	if err != nil {
		log.Printf("convert quotation %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": order.OrderID,
		"message": "Order created successfully",
	})
}
