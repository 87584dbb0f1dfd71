package http

import (
	"github.com/gin-gonic/gin"
	"github.com/lojatech/catalog-import/config"
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
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		imports := v1.Group("/imports")
		{
			imports.POST("/parse", handler.ParseText)
			imports.POST("/parse/xlsx", handler.ParseSpreadsheet)
			imports.POST("", handler.StartImport)
			imports.GET("/status", handler.ImportStatus)
			imports.GET("/events", handler.ImportEvents)
		}

		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.DELETE("", handler.DeleteProducts)
		}

		v1.GET("/categories/rules", handler.CategoryRules)
	}

	return router
}
