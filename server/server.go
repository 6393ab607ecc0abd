package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"agribot/config"
	"agribot/database"
	"agribot/metrics"
	"agribot/server/handlers"
	"agribot/server/middleware"
	"agribot/server/services"
)

// NewRouter собирает маршрутизатор сервиса: загрузка выгрузок, чтение
// справочника продуктов, здоровье и метрики.
func NewRouter(
	cfg *config.Config,
	etl *services.ETLService,
	storage database.Storage,
	reg *metrics.Registry,
	logger *slog.Logger,
) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Gzip())
	router.MaxMultipartMemory = cfg.MaxUploadSize

	uploadHandler := handlers.NewUploadHandler(etl, logger)
	productHandler := handlers.NewProductGuideHandler(storage)

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)

	api := router.Group("/api/v1")
	{
		api.POST("/upload", middleware.RateLimit(limiter), uploadHandler.HandleUpload)
		api.GET("/product-guide/:product", productHandler.HandleGetProduct)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if reg != nil {
		router.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	return router
}
