package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/handlers"
	"github.com/BradenHooton/gymcrm/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the settings that shape the HTTP surface
type RouterConfig struct {
	Env            string
	LoginRateLimit middleware.RateLimitConfig
	RequestTimeout time.Duration
}

// NewRouter builds the application router with global middleware, health,
// metrics and the auth API
func NewRouter(
	cfg RouterConfig,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	tokens auth.TokenParser,
	metricsHandler http.Handler,
	logger *slog.Logger,
) chi.Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.ClientInfo)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: cfg.Env}))
	router.Use(middleware.SecureLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	router.Get("/health", healthHandler.Health)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler)
	}

	router.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, authHandler, tokens, cfg.LoginRateLimit, logger)
	})

	return router
}

// RegisterRoutes registers the auth routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	tokens auth.TokenParser,
	rateLimitConfig middleware.RateLimitConfig,
	logger *slog.Logger,
) {
	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(tokens, logger))
		r.Use(auth.RequireAuthenticated)

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)
	})
}
