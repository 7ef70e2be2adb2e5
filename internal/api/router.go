package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/smartmed/doctor-portal/docs"
	"github.com/smartmed/doctor-portal/internal/api/handler"
	"github.com/smartmed/doctor-portal/internal/api/middleware"
	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

// RouterDeps carries everything the router wires into handlers and middleware.
type RouterDeps struct {
	Log      zerolog.Logger
	Registry ports.SessionRegistry
	Portal   ports.PortalService

	// Directory is nil in demo mode.
	Directory    ports.DirectoryService
	Auditor      handler.SignInAuditor
	DemoAccounts []domain.CredentialRecord
	HealthDeps   map[string]handler.Pinger

	ContextSecret []byte
	ContextTTL    time.Duration
	GuardWait     time.Duration

	// MetricsRegisterer enables HTTP metrics when set.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	if deps.MetricsRegisterer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.MetricsRegisterer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	}

	// --- Health probes, metrics and docs (no browser context) ---
	healthHandler := handler.NewHealthHandler(deps.HealthDeps)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal ---
	// Route-level middleware keeps unknown paths on echo's plain 404.
	withContext := middleware.BrowserContext(deps.ContextSecret, deps.ContextTTL)
	guestOnly := middleware.GuestOnly(deps.Registry, deps.GuardWait)
	guard := middleware.Guard(deps.Registry, deps.GuardWait)

	authHandler := handler.NewAuthHandler(deps.Registry, handler.AuthHandlerConfig{
		Directory:    deps.Directory,
		Auditor:      deps.Auditor,
		DemoAccounts: deps.DemoAccounts,
		Wait:         deps.GuardWait,
	})

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, domain.LoginPath)
	})
	e.GET("/login", authHandler.LoginPage, withContext, guestOnly)
	e.POST("/login", authHandler.Login, withContext)
	e.POST("/logout", authHandler.Logout, withContext)
	e.GET("/session", authHandler.Session, withContext)
	e.GET("/signup", authHandler.SignupPage, withContext, guestOnly)
	e.POST("/signup", authHandler.Signup, withContext)

	portalHandler := handler.NewPortalHandler(deps.Portal)

	e.GET("/dashboard", portalHandler.Dashboard, withContext, guard)
	e.GET("/patients", portalHandler.ListPatients, withContext, guard)
	e.GET("/patients/:id", portalHandler.GetPatient, withContext, guard)
	e.GET("/alerts", portalHandler.ListAlerts, withContext, guard)
	e.POST("/alerts/read-all", portalHandler.MarkAllAlertsRead, withContext, guard)
	e.POST("/alerts/:id/read", portalHandler.MarkAlertRead, withContext, guard)
	e.GET("/appointments", portalHandler.ListAppointments, withContext, guard)
	e.GET("/settings", portalHandler.Settings, withContext, guard)

	return e
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
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
				Str("context_id", middleware.ContextID(c)).
				Msg("request")
			return nil
		},
	})
}
