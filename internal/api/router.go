package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/useradmin/user-admin-dashboard/docs"
	"github.com/useradmin/user-admin-dashboard/internal/api/handler"
	"github.com/useradmin/user-admin-dashboard/internal/api/middleware"
	"github.com/useradmin/user-admin-dashboard/internal/core/domain"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
	"github.com/useradmin/user-admin-dashboard/internal/web"
)

const limiterEntryTTL = 3 * time.Minute

// Deps carries everything the HTTP surface needs. Stores are wired by the caller.
type Deps struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Checks map[string]handler.PingFunc
	Logger zerolog.Logger

	CookieSecure bool
	// LoginRate is the sustained sign-in requests per second allowed per client IP.
	LoginRate  float64
	LoginBurst int

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	renderer, err := web.NewRenderer(web.Templates)
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "user_admin",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}))

	loginLimiter := newLoginLimiter(d.LoginRate, d.LoginBurst)

	// --- Health, metrics, docs (no auth required) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- JSON API ---
	authenticated := middleware.Auth(d.Auth, middleware.DenyJSON)
	adminOnly := middleware.RBAC(middleware.DenyJSON, domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(d.Auth, d.CookieSecure)
	userHandler := handler.NewUserHandler(d.Users)

	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login, loginLimiter)
	apiGroup.POST("/auth/logout", authHandler.Logout)
	apiGroup.GET("/auth/session", authHandler.Session, authenticated)

	users := apiGroup.Group("/users", authenticated, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/stats", userHandler.Stats)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Dashboard pages ---
	web.NewHandler(d.Auth, d.Users, d.CookieSecure, d.Logger).Register(e, loginLimiter)

	return e, nil
}

// newLoginLimiter limits sign-in requests per client IP. A non-positive rate disables it.
func newLoginLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: limiterEntryTTL,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{Store: store})
}
