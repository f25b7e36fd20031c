package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/api/handler"
	"github.com/ItsCharrs/logipro/internal/api/middleware"
	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// Deps are the services behind the gateway. Nil services leave their routes
// unmounted, so each app only exposes what it uses.
type Deps struct {
	Log     zerolog.Logger
	Session ports.SessionService
	Booking ports.BookingService
	Portal  ports.PortalService
	Driver  ports.DriverService
	Theme   ports.ThemeService
	Google  handler.GoogleSignIn
	Ready   map[string]ports.Pinger

	SecureCookies bool
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	httpMetrics, err := echoprometheus.MiddlewareConfig{
		Namespace:  "logipro",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health")
		},
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(httpMetrics)

	// --- Health probes and metrics (no session required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Ready).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	requireSession := middleware.RequireSession(d.Session)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)

	// --- Session ---
	sh := handler.NewSessionHandler(d.Session, d.Google, d.SecureCookies)
	e.POST("/session/login", sh.Login)
	e.POST("/session/exchange", sh.Exchange)
	e.POST("/session/register", sh.Register)
	e.GET("/session", sh.Current)
	e.DELETE("/session", sh.Logout)
	e.GET("/session/google", sh.GoogleStart)
	e.GET("/session/google/callback", sh.GoogleCallback)

	// --- Booking ---
	if d.Booking != nil {
		bh := handler.NewBookingHandler(d.Booking)
		e.POST("/booking/estimate", bh.Estimate)
		e.POST("/booking/quote", bh.Quote)
		e.POST("/booking", bh.Submit, requireSession)
	}

	// --- Dashboard and account ---
	if d.Portal != nil {
		ph := handler.NewPortalHandler(d.Portal)

		// No root-level group here: a group's catch-all would answer
		// unknown paths with 401 instead of 404.
		e.GET("/jobs", ph.Jobs, requireSession, staff)
		e.POST("/jobs", ph.CreateJob, requireSession, staff)
		e.GET("/jobs/:id", ph.Job, requireSession, staff)
		e.GET("/jobs/:id/shipments", ph.Track, requireSession, staff)
		e.GET("/track/:id", ph.Track, requireSession)
		e.GET("/users", ph.Users, requireSession, staff)
		e.GET("/shipments", ph.Shipments, requireSession, staff)
		e.PATCH("/shipments/:id", ph.UpdateShipment, requireSession, staff)

		warehouses := e.Group("/warehouses", requireSession, staff)
		warehouses.GET("", ph.Warehouses)
		warehouses.POST("", ph.CreateWarehouse)
		warehouses.PUT("/:id", ph.UpdateWarehouse)
		warehouses.DELETE("/:id", ph.DeleteWarehouse)

		reports := e.Group("/reports", requireSession, staff)
		reports.GET("/summary", ph.Summary)
		reports.GET("/chart", ph.Chart)

		account := e.Group("/orders", requireSession, middleware.RBAC(domain.RoleCustomer))
		account.GET("", ph.Orders)
		account.GET("/stats", ph.OrderStats)
		account.GET("/:id", ph.Order)
	}

	// --- Driver ---
	if d.Driver != nil {
		dh := handler.NewDriverHandler(d.Driver)
		driver := e.Group("/driver", requireSession, middleware.RBAC(domain.RoleDriver))
		driver.GET("/jobs", dh.Jobs)
		driver.GET("/jobs/:id", dh.Job)
		driver.GET("/earnings", dh.Earnings)
		driver.GET("/stats", dh.Stats)
		driver.POST("/jobs/:id/status", dh.UpdateStatus)
		driver.POST("/jobs/:id/pod", dh.UploadProofOfDelivery)
	}

	// --- Preferences ---
	if d.Theme != nil {
		th := handler.NewThemeHandler(d.Theme)
		e.GET("/preferences/theme", th.Get)
		e.PUT("/preferences/theme", th.Put)
		e.POST("/preferences/theme/toggle", th.Toggle)
	}

	return e, nil
}

// requestLogger writes one zerolog line per request in place of echo's
// text logger.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
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
