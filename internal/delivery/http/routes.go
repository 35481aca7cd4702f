package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintassist/backend/config"
)

// MetricsProvider observes requests and serves the collected metrics
type MetricsProvider interface {
	RequestObserver
	Handler() http.Handler
}

// SetupRouter creates and configures the Gin router. metrics may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, metrics MetricsProvider) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		v1.POST("/chat", handler.Chat)
		v1.POST("/ai/chat", handler.AIChat)
		v1.GET("/products", handler.SearchProducts)
		v1.GET("/prices/:code", handler.GetPrices)
		v1.POST("/quotes", handler.CreateQuote)
	}

	return router
}
