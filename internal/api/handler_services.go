package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabworks-backend/internal/model"
	"fabworks-backend/internal/store"
)

type serviceRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Material    string   `json:"material" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Unit        string   `json:"unit" binding:"required"`
	Description string   `json:"description"`
	Active      *bool    `json:"active"`
}

// ListServices returns the catalog; ?active=true restricts to active rows.
func (h *Handler) ListServices(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	services, err := h.store.ListServices(c.Request.Context(), activeOnly)
	if err != nil {
		log.Printf("list services failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	svc, err := h.store.GetService(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		log.Printf("get service %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidCategory(req.Category) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	svc := model.Service{
		Name:        req.Name,
		Category:    req.Category,
		Material:    req.Material,
		Price:       *req.Price,
		Unit:        req.Unit,
		Description: req.Description,
		Active:      active,
	}
	if err := h.store.CreateService(c.Request.Context(), &svc); err != nil {
		log.Printf("create service failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateService performs a full replace; an omitted active flag keeps the
// current value.
func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidCategory(req.Category) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	} else {
		existing, err := h.store.GetService(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		if err != nil {
			log.Printf("update service %d failed: %v", id, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		active = existing.Active
	}

	svc := model.Service{
		Name:        req.Name,
		Category:    req.Category,
		Material:    req.Material,
		Price:       *req.Price,
		Unit:        req.Unit,
		Description: req.Description,
		Active:      active,
	}
	updated, err := h.store.UpdateService(c.Request.Context(), id, &svc)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		log.Printf("update service %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ToggleService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	svc, err := h.store.ToggleService(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		log.Printf("toggle service %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	err := h.store.DeleteService(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	if err != nil {
		log.Printf("delete service %d failed: %v", id, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
