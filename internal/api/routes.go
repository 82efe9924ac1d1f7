package api

import (
	"net/http"

	infragin "github.com/Ruchi0214/Regexia/internal/infrastructure/gin"
	"github.com/gin-gonic/gin"
)

// RouteConfig carries the route-level settings.
type RouteConfig struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        http.Handler
}

// SetupRoutes registers the API on router.
func SetupRoutes(router *gin.Engine, h *Handler, cfg RouteConfig) {
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	v1 := infragin.ProtectedGroup(router, "/api/v1", cfg.JWTSecret)
	{
		v1.GET("/rules", h.ListRules)

		analyze := v1.Group("/analyze", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
		{
			analyze.POST("", h.Analyze)          // POST /api/v1/analyze
			analyze.POST("/json", h.AnalyzeJSON) // POST /api/v1/analyze/json
		}

		results := v1.Group("/results")
		{
			results.GET("", h.ListResults)
			results.POST("", h.SaveResults)
		}
	}
}
