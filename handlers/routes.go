package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-url-shortener/metrics"
	"go.uber.org/zap"
)

// RegisterRoutes sets up all the routes for the URL shortener service and the
// middleware shared by them. metricsHandler may be nil.
//
// Operational endpoints live under /api/v1 so that no generated short code can
// shadow them.
func RegisterRoutes(r *gin.Engine, handler URLHandlerInterface, logger *zap.Logger, m *metrics.Metrics, metricsHandler http.Handler) {
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(CORSMiddleware())
	r.Use(m.Middleware())

	v1 := r.Group("/api/v1")
	{
		urls := v1.Group("/urls")
		{
			urls.POST("", handler.CreateShortURL)
			urls.GET("/:short_code", handler.GetURLData)
		}

		v1.GET("/health", handler.HealthCheck)
		if metricsHandler != nil {
			v1.GET("/metrics", gin.WrapH(metricsHandler))
		}
	}

	// Redirection routes (not under /api/v1 as they're user-facing); the bare
	// root answers with a missing short code error.
	r.GET("/:short_code", handler.RedirectURL)
	r.GET("/", handler.RedirectURL)
}
