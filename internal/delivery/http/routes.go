package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/:barcode", handler.GetProduct)
		}

		v1.POST("/scan", handler.DecodeScan)

		nutrition := v1.Group("/nutrition")
		{
			nutrition.POST("/scale", handler.ScaleNutrition)
			nutrition.POST("/base", handler.SetBaseProfile)
		}

		cache := v1.Group("/cache")
		{
			cache.POST("/purge", handler.PurgeCache)
		}
	}

	return router
}
