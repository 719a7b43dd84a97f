// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authsvc/internal/delivery/api/middleware"
	"authsvc/internal/delivery/api/router/handler"
	"authsvc/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	MetricsRegistry *prometheus.Registry `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	authMiddleware  *middleware.AuthMiddleware
	metricsRegistry *prometheus.Registry
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		authMiddleware:  params.AuthMiddleware,
		metricsRegistry: params.MetricsRegistry,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if r.metricsRegistry != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(r.metricsRegistry)))
	}

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("", r.authHandler.CreateAccount)
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}
}
