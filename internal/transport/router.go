package transport

import (
	"restopos-be/internal/logger"
	"restopos-be/internal/middleware"

	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the request middleware chain:
// request id, access log, bearer auth, rate limit.
func NewRouter(s *Server, jwtSecret []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echo.WrapMiddleware(logger.RequestIDMiddleware))
	e.Use(echo.WrapMiddleware(middleware.LoggingMiddleware))
	e.Use(echo.WrapMiddleware(middleware.AuthMiddleware(jwtSecret)))
	e.Use(echo.WrapMiddleware(middleware.RateLimitMiddleware))

	e.GET("/health", s.Health)
	e.GET("/internal/metrics", s.Metrics)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.GET("/restaurants/:id/orders/active", s.ListActiveOrders)

	return e
}
