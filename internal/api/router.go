package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/orderly/orders-api/internal/api/handler"
	"github.com/orderly/orders-api/internal/api/middleware"
	"github.com/orderly/orders-api/internal/core/ports"
	"github.com/orderly/orders-api/internal/infrastructure/http/handlers"
	"github.com/orderly/orders-api/internal/pkg/validation"
)

// Dependencies carries everything NewRouter wires into routes.
type Dependencies struct {
	AuthService  ports.AuthService
	OrderService ports.OrderService
	Tokens       ports.TokenVerifier
	Validator    *validation.Validator

	// Recorder receives one record per request; nil disables the audit trail.
	Recorder middleware.Recorder
	// HealthChecks are pinged by GET /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Checker
	AllowOrigins []string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(deps.Validator)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLog(deps.Logger, deps.Recorder))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "orders_api",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	orderHandler := handler.NewOrderHandler(deps.OrderService)
	requireAuth := middleware.Auth(deps.Tokens, deps.Logger)

	// --- Meta, docs and probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/", handler.Root)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Order routes ---
	orders := e.Group("/orders", requireAuth)
	orders.GET("", orderHandler.List)
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id", orderHandler.Update)
	orders.DELETE("/:id", orderHandler.Delete)

	return e
}
