package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/taapman/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/readyz", handler.Ready)

	api := router.Group("/api/v1")
	api.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		api.GET("/dashboard", handler.DashboardByCity)
		api.GET("/dashboard/coordinates", handler.DashboardByCoordinates)
		api.POST("/advice", handler.Advise)
		api.GET("/conditions/:code", handler.Condition)
		api.GET("/searches/trending", handler.TrendingPlaces)
		api.GET("/searches/recent", handler.RecentLookups)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
