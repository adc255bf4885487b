package router

import (
	"time"

	"dukadrop/config"
	"dukadrop/internal/erpnext"
	"dukadrop/internal/handler"
	"dukadrop/internal/middleware"
	"dukadrop/internal/repository"
	"dukadrop/internal/service"
	"dukadrop/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, erp *erpnext.Client, collections *service.CollectionService, hub *ws.Hub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	driverRepo := repository.NewDriverRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	authHandler := handler.NewAuthHandler(cfg, driverRepo)
	orderHandler := handler.NewOrderHandler(erp)
	paymentEntryHandler := handler.NewPaymentEntryHandler(cfg, erp)
	settingsHandler := handler.NewSettingsHandler(settingRepo)
	collectionHandler := handler.NewCollectionHandler(collections)
	stkWebhookHandler := handler.NewSTKWebhookHandler(collections)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/webhooks/stk", stkWebhookHandler.Handle)
		api.GET("/ws/collections", ws.UpgradeCollections(&cfg.JWT, hub))

		authed := api.Group("")
		authed.Use(middleware.AuthRequired(&cfg.JWT))
		{
			authed.GET("/orders", orderHandler.List)
			authed.GET("/orders/:id", orderHandler.Get)

			authed.POST("/orders/:id/collection", collectionHandler.Start)
			authed.GET("/orders/:id/collection", collectionHandler.Status)
			authed.POST("/orders/:id/collection/retry", collectionHandler.Retry)
			authed.DELETE("/orders/:id/collection", collectionHandler.Cancel)

			authed.GET("/payments/today", paymentEntryHandler.Today)
			authed.GET("/payments/:id", paymentEntryHandler.Get)

			authed.GET("/settings", settingsHandler.Get)
			authed.PUT("/settings", settingsHandler.Update)
		}
	}
	return r
}
