package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/pkg/metrics"
)

// ProbeReporter exposes the latest upstream probe outcome.
type ProbeReporter interface {
	Status() metrics.ProbeStatus
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	dashboardSvc dashboard.Service
	probe        ProbeReporter
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(dashboardSvc dashboard.Service, probe ProbeReporter, logger *slog.Logger) *Handler {
	return &Handler{
		dashboardSvc: dashboardSvc,
		probe:        probe,
		logger:       logger.With("component", "http.handler"),
	}
}

// Health is the liveness endpoint.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports the latest upstream probe; 503 when it failed.
func (h *Handler) Ready(c *gin.Context) {
	if h.probe == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := h.probe.Status()
	switch {
	case status.IsZero():
		c.JSON(http.StatusOK, gin.H{"status": "pending"})
	case status.Healthy:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "probe": status})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "probe": status})
	}
}

// DashboardByCity resolves ?city= and returns the dashboard.
func (h *Handler) DashboardByCity(c *gin.Context) {
	req, err := parseCityQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	resp, err := h.dashboardSvc.ByCity(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardByCoordinates resolves ?lat=&lon= and returns the dashboard.
func (h *Handler) DashboardByCoordinates(c *gin.Context) {
	req, err := parseCoordinatesQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}

	resp, err := h.dashboardSvc.ByCoordinates(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Advise runs the outfit and activity rules on a caller-supplied snapshot.
func (h *Handler) Advise(c *gin.Context) {
	var body adviceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	c.JSON(http.StatusOK, h.dashboardSvc.Advise(req))
}

// Condition classifies a single WMO weather code.
func (h *Handler) Condition(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "code must be an integer", err))
		return
	}
	category := forecast.Classify(code)
	c.JSON(http.StatusOK, gin.H{
		"code":      code,
		"condition": category,
		"icon":      category.Icon(),
	})
}

// TrendingPlaces lists the most requested places.
func (h *Handler) TrendingPlaces(c *gin.Context) {
	limit, err := parseLimitQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	items, err := h.dashboardSvc.Trending(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": items})
}

// RecentLookups lists the newest lookups.
func (h *Handler) RecentLookups(c *gin.Context) {
	limit, err := parseLimitQuery(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	items, err := h.dashboardSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"lookups": items})
}
