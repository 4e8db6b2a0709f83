package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/barstore/internal/metrics"
	"github.com/guttosm/barstore/internal/middleware"
)

// RequestTimeout bounds every API request.
const RequestTimeout = 10 * time.Second

// NewRouter creates a Gin engine with every route configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, Metrics, RateLimiter).
//   - Adds a per-request timeout.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Health and readiness endpoints are registered by app.InitializeApp.
// m may be nil, in which case /metrics is not mounted.
func NewRouter(handler *Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.Metrics(m),
		middleware.RateLimiter(),
	)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/prices", handler.GetPrices)
		v1.GET("/prices/daily-first-last", handler.GetDailyFirstLast)
		v1.GET("/volume/daily-average", handler.GetDailyAverageVolume)
		v1.GET("/returns/top", handler.GetTopReturns)
		v1.GET("/columnar/rolling-mean", handler.GetRollingMean)
		v1.GET("/columnar/volatility", handler.GetVolatility)
		v1.GET("/compare", handler.GetCompare)
	}

	return router
}
