package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/smmpanel/smm-client/docs"
	"github.com/smmpanel/smm-client/internal/api/handler"
	"github.com/smmpanel/smm-client/internal/api/middleware"
)

// Deps is everything the agent routes need.
type Deps struct {
	Sessions handler.SessionReader
	Watches  handler.WatchRegistry
	// Checks are pinged by the readiness probe, keyed by name.
	Checks map[string]handler.Pinger
	// JWTSecret enables bearer auth on /api/v1 when non-empty.
	JWTSecret string
	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	promCfg := echoprometheus.MiddlewareConfig{
		Subsystem: "smm_agent",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}
	promHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		promHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", promHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Agent API ---
	sessions := handler.NewSessionHandler(d.Sessions)
	watches := handler.NewWatchHandler(d.Watches, d.Log)

	v1 := e.Group("/api/v1")
	var read, write []echo.MiddlewareFunc
	if d.JWTSecret != "" {
		v1.Use(middleware.Auth(d.JWTSecret))
		read = append(read, middleware.RBAC(middleware.ReadRoles...))
		write = append(write, middleware.RBAC(middleware.WriteRoles...))
	} else {
		d.Log.Warn().Msg("AGENT_JWT_SECRET is empty, agent API is unauthenticated")
	}

	v1.GET("/session", sessions.Get, read...)
	v1.GET("/watches", watches.List, read...)
	v1.GET("/payments/:order_id/watch", watches.Get, read...)
	v1.POST("/payments/:order_id/watch", watches.Start, write...)
	v1.DELETE("/payments/:order_id/watch", watches.Stop, write...)

	return e
}

// requestLogger writes one zerolog line per request.
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
