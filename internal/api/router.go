package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/carrental/admin-api/internal/api/handler"
	"github.com/carrental/admin-api/internal/api/middleware"
	"github.com/carrental/admin-api/internal/api/response"
	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/domain"
	"github.com/carrental/admin-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs from the rest of the process.
type Deps struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Tokens ports.TokenVerifier
	Health *handler.HealthHandler
	// Accounts re-reads the signed-in account on admin routes.
	Accounts middleware.AccountLookup

	Cookies session.Cookies
	// ExposeErrors adds internal error text to 5xx envelopes. Development only.
	ExposeErrors bool
	Logger       zerolog.Logger

	// Registerer and Gatherer default to the global prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Deps.Accounts is required.
func NewRouter(d Deps) *echo.Echo {
	if d.Accounts == nil {
		panic("api: Deps.Accounts is required")
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = response.NewErrorHandler(d.Logger, d.ExposeErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(middleware.Gate(middleware.GateConfig{
		Tokens:  d.Tokens,
		Cookies: d.Cookies,
		Logger:  d.Logger,
	}))

	// --- Auth routes (public; handlers read the token themselves) ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	auth := e.Group("/api/v1/auth")
	auth.POST("", authHandler.Login)
	auth.PUT("", authHandler.Register)
	auth.GET("", authHandler.Verify)
	auth.DELETE("", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)

	// --- User administration (gated, live account, role checked) ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/api/v1/users", middleware.LiveAccount(d.Accounts, d.Cookies))
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))
	users.POST("", userHandler.Create, middleware.RBAC(domain.RoleAdmin))
	users.PATCH("/:id/active", userHandler.SetActive, middleware.RBAC(domain.RoleAdmin))

	// --- Health, metrics and docs ---
	if d.Health != nil {
		e.GET("/health", d.Health.Liveness)
		e.GET("/health/ready", d.Health.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
