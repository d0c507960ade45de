// Package v1 provides the HTTP handlers of the interview API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xiaot623/gogo/coach/internal/metrics"
	"github.com/xiaot623/gogo/coach/internal/service"
	"go.uber.org/zap"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Interview API
	api := e.Group("/api")
	api.POST("/start_interview", h.StartInterview)
	api.POST("/process_answer", h.ProcessAnswer)
	api.GET("/get_feedback/:session_id", h.GetFeedback)
	api.GET("/sessions/:session_id", h.GetSession)

	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}
}

// Root answers the service banner.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "AI Interview Coach API is running!",
	})
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// Ready reports whether the store is reachable.
func (h *Handler) Ready(c echo.Context) error {
	if err := h.service.Ping(c.Request().Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
