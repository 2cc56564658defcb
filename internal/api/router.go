package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/adminhub/access-control/internal/api/docs"
	"github.com/adminhub/access-control/internal/api/handler"
	"github.com/adminhub/access-control/internal/api/middleware"
	"github.com/adminhub/access-control/internal/core/domain"
	"github.com/adminhub/access-control/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Access    ports.AccessService
	Auth      ports.AuthService
	JWTSecret string
	Log       zerolog.Logger
	// Readiness lists the dependencies checked by /health/ready.
	Readiness map[string]handler.PingFunc
	// Registry receives HTTP metrics and backs /metrics. Nil uses the
	// Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	promMW := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	promHandler := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promMW.Registerer = d.Registry
		promHandler.Gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMW))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	accessHandler := handler.NewAccessHandler()
	roleHandler := handler.NewRoleHandler(d.Access)
	userHandler := handler.NewUserHandler(d.Access)
	authMiddleware := middleware.Auth(d.JWTSecret, d.Access)
	guard := middleware.Guard

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register, authMiddleware, guard(domain.ModuleSettings, domain.ActionCreate))

	// --- Permission model ---
	v1 := e.Group("/api/v1", authMiddleware)
	v1.GET("/me", accessHandler.Me)
	v1.GET("/me/permissions", accessHandler.Permissions)
	v1.GET("/me/permissions/check", accessHandler.Check)
	v1.PUT("/me/permissions/:module", accessHandler.UpdateOverride, guard(domain.ModuleSettings, domain.ActionEdit))
	v1.GET("/modules", accessHandler.Modules)

	v1.GET("/roles", roleHandler.List, guard(domain.ModuleSettings, domain.ActionView))
	v1.GET("/roles/:id", roleHandler.Get, guard(domain.ModuleSettings, domain.ActionView))
	v1.POST("/roles", roleHandler.Create, guard(domain.ModuleSettings, domain.ActionCreate))
	v1.PUT("/roles/:id/permissions/:module", roleHandler.UpdatePermissions, guard(domain.ModuleSettings, domain.ActionEdit))

	v1.GET("/users/:id/permissions", userHandler.Permissions, guard(domain.ModuleSettings, domain.ActionView))
	v1.PUT("/users/:id/permissions/:module", userHandler.UpdateOverride, guard(domain.ModuleSettings, domain.ActionEdit))

	// --- Health checks, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
