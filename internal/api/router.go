package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/recoverydesk/collections-api/internal/api/handler"
	"github.com/recoverydesk/collections-api/internal/api/middleware"
	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

const metricsSubsystem = "collections"

// Deps is everything the router needs. Services are built in cmd/api so the
// router never touches a database handle.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Clients  ports.ClientService
	Invoices ports.InvoiceService
	Payments ports.PaymentService
	Recovery ports.RecoveryActionService
	Stats    ports.StatsService

	Logger      zerolog.Logger
	Cookie      handler.CookieOptions
	Development bool
	Readiness   []handler.DependencyCheck

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger, deps.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	registerMetrics(e, deps.Registry)

	// --- Health probes and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readyHandler := handler.NewHealthDependenciesHandler(deps.Readiness...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authenticated := middleware.Auth(deps.Auth, deps.Cookie.Name)
	read := middleware.Require(domain.OpReadRecords)
	write := middleware.Require(domain.OpWriteRecords)
	remove := middleware.Require(domain.OpDeleteRecords)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authenticated)
	auth.GET("/me", authHandler.Me, authenticated)

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.Users)
	manageUsers := middleware.Require(domain.OpManageUsers)
	users := api.Group("/users", authenticated)
	users.GET("", userHandler.List, manageUsers)
	users.GET("/:id", userHandler.Get, middleware.Require(domain.OpViewUser))
	users.PUT("/:id", userHandler.Update, manageUsers)
	users.DELETE("/:id", userHandler.Delete, manageUsers)

	// --- Clients ---
	clientHandler := handler.NewClientHandler(deps.Clients)
	clients := api.Group("/clients", authenticated)
	clients.GET("", clientHandler.List, read)
	clients.GET("/:id", clientHandler.Get, read)
	clients.POST("", clientHandler.Create, write)
	clients.PUT("/:id", clientHandler.Update, write)
	clients.DELETE("/:id", clientHandler.Delete, remove)

	// --- Invoices ---
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)
	invoices := api.Group("/invoices", authenticated)
	invoices.GET("", invoiceHandler.List, read)
	invoices.GET("/client/:clientId", invoiceHandler.ListByClient, read)
	invoices.GET("/:id", invoiceHandler.Get, read)
	invoices.POST("", invoiceHandler.Create, write)
	invoices.PUT("/:id", invoiceHandler.Update, write)
	invoices.DELETE("/:id", invoiceHandler.Delete, remove)

	// --- Payments ---
	paymentHandler := handler.NewPaymentHandler(deps.Payments)
	payments := api.Group("/payments", authenticated)
	payments.GET("", paymentHandler.List, read)
	payments.GET("/invoice/:invoiceId", paymentHandler.ListByInvoice, read)
	payments.GET("/:id", paymentHandler.Get, read)
	payments.POST("", paymentHandler.Create, write)

	// --- Recovery actions ---
	recoveryHandler := handler.NewRecoveryActionHandler(deps.Recovery)
	recovery := api.Group("/recovery-actions", authenticated)
	recovery.GET("", recoveryHandler.List, read)
	recovery.GET("/client/:clientId", recoveryHandler.ListByClient, read)
	recovery.GET("/invoice/:invoiceId", recoveryHandler.ListByInvoice, read)
	recovery.GET("/:id", recoveryHandler.Get, read)
	recovery.POST("", recoveryHandler.Create, write)
	recovery.PUT("/:id", recoveryHandler.Update, write)
	recovery.DELETE("/:id", recoveryHandler.Delete, remove)

	// --- Stats ---
	statsHandler := handler.NewStatsHandler(deps.Stats)
	stats := api.Group("/stats", authenticated, middleware.Require(domain.OpViewStats))
	stats.GET("/overview", statsHandler.Overview)
	stats.GET("/invoices", statsHandler.Invoices)
	stats.GET("/agents", statsHandler.Agents)

	return e
}

// registerMetrics installs the request metrics middleware and GET /metrics.
func registerMetrics(e *echo.Echo, registry *prometheus.Registry) {
	skipMetrics := func(c echo.Context) bool { return c.Path() == "/metrics" }

	if registry == nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem: metricsSubsystem,
			Skipper:   skipMetrics,
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
		return
	}

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Skipper:    skipMetrics,
		Registerer: registry,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))
}
