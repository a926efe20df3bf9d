package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP surface: health check plus the /v1 inventory
// routes. low-stock is registered as a static sibling of :product_id.
func NewRouter(h *HTTPHandler, logger *zap.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type", requestIDHeader}
	router.Use(cors.New(corsCfg))

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.POST("/inventory", h.CreateInventory)
		v1.GET("/inventory/low-stock", h.GetLowStockItems)
		v1.GET("/inventory/:product_id", h.GetInventory)
		v1.DELETE("/inventory/:product_id", h.DeleteInventory)
		v1.POST("/inventory/:product_id/reserve", h.ReserveInventory)
		v1.POST("/inventory/:product_id/release", h.ReleaseInventory)
		v1.POST("/inventory/:product_id/adjust", h.AdjustInventory)
	}

	return router
}
