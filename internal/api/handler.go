package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fabworks-backend/config"
	"fabworks-backend/internal/store"
	"fabworks-backend/internal/upload"
)

// Notifier dispatches an admin notification for a newly created quotation.
type Notifier interface {
	Dispatch(quotationID uint)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	cfg      *config.Config
	saver    *upload.Saver
	notifier Notifier
}

// NewHandler creates a new API handler. notifier may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, cfg *config.Config, saver *upload.Saver, notifier Notifier) *Handler {
	return &Handler{
		store:    s,
		cfg:      cfg,
		saver:    saver,
		notifier: notifier,
	}
}

// idParam parses the :id route parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
