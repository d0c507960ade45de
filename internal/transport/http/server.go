// Package http provides the HTTP server for the interview coach.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/xiaot623/gogo/coach/internal/metrics"
	"github.com/xiaot623/gogo/coach/internal/service"
	v1 "github.com/xiaot623/gogo/coach/internal/transport/http/v1"
	"go.uber.org/zap"
)

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service, logger *zap.Logger, m *metrics.Metrics, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(RequestLogger(logger))
	e.Use(Metrics(m))

	// Handlers
	v1Handler := v1.NewHandler(svc, m, logger)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}
