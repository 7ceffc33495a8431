package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"fabworks-backend/config"
	"fabworks-backend/internal/mw"
	"fabworks-backend/internal/store"
	"fabworks-backend/internal/upload"
)

// NewRouter creates and configures a new Gin router. Public endpoints are
// login, the service catalog reads, quotation creation, and the VAPID key;
// everything else requires a bearer token.
func NewRouter(s store.Store, cfg *config.Config, saver *upload.Saver, notifier Notifier) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, cfg, saver, notifier)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authRequired := mw.RequireAuth(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", handler.Login)
		api.GET("/auth/verify", authRequired, handler.Verify)
		api.POST("/auth/change-password", authRequired, handler.ChangePassword)

		api.GET("/services", caching, handler.ListServices)
		api.GET("/services/:id", handler.GetService)
		api.POST("/services", authRequired, handler.CreateService)
		api.PUT("/services/:id", authRequired, handler.UpdateService)
		api.PATCH("/services/:id/toggle", authRequired, handler.ToggleService)
		api.DELETE("/services/:id", authRequired, handler.DeleteService)

		api.POST("/quotations", handler.CreateQuotation)
		api.GET("/quotations", authRequired, handler.ListQuotations)
		api.GET("/quotations/:id", authRequired, handler.GetQuotation)
		api.PATCH("/quotations/:id/status", authRequired, handler.UpdateQuotationStatus)
		api.POST("/quotations/:id/convert-to-order", authRequired, handler.ConvertQuotation)

		api.GET("/orders", authRequired, handler.ListOrders)
		api.GET("/orders/:id", authRequired, handler.GetOrder)
		api.PATCH("/orders/:id", authRequired, handler.UpdateOrder)
		api.GET("/orders/stats/dashboard", authRequired, handler.OrderStats)

		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
		api.GET("/subscriptions", authRequired, handler.GetSubscription)
		api.PUT("/subscriptions", authRequired, handler.PutSubscription)
		api.DELETE("/subscriptions", authRequired, handler.DeleteSubscription)
	}

	return r
}
