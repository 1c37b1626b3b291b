package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/gymcrm/internal/auth"
	"github.com/BradenHooton/gymcrm/internal/background"
	"github.com/BradenHooton/gymcrm/internal/config"
	"github.com/BradenHooton/gymcrm/internal/database"
	"github.com/BradenHooton/gymcrm/internal/handlers"
	"github.com/BradenHooton/gymcrm/internal/metrics"
	"github.com/BradenHooton/gymcrm/internal/middleware"
	"github.com/BradenHooton/gymcrm/internal/repositories"
	"github.com/BradenHooton/gymcrm/internal/routes"
	"github.com/BradenHooton/gymcrm/internal/services"
	pkglogger "github.com/BradenHooton/gymcrm/pkg/logger"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// storage bundles the repositories selected by STORAGE_BACKEND
type storage struct {
	users interface {
		services.UserRepository
		services.UserStore
	}
	attempts services.LoginAttemptStore
	health   handlers.HealthChecker
	close    func()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("storage", cfg.Server.StorageBackend))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// Seed the first account if configured
	if cfg.Seed.Enabled() {
		seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		userService := services.NewUserService(store.users, logger, cfg.Server.Env)
		_, err := userService.EnsureUser(seedCtx, cfg.Seed.Username, []byte(cfg.Seed.Password))
		cancel()
		if err != nil {
			logger.Error("failed to ensure seed user", slog.Any("error", err))
		}
	}

	tokenService, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	guard := services.NewBruteForceGuard(store.attempts, services.LockoutConfig{
		MaxAttempts:          cfg.Lockout.MaxAttempts,
		BlockDuration:        cfg.Lockout.BlockDuration,
		SerializePerUsername: cfg.Lockout.SerializePerUsername,
	}, logger, services.WithGuardMetrics(m), services.WithGuardEnv(cfg.Server.Env))

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   int(cfg.Auth.TimingDelayBase / time.Millisecond),
		RandomDelayMs: int(cfg.Auth.TimingDelayRandom / time.Millisecond),
	})

	auditLogger := pkglogger.NewAuditLogger(logger, cfg.Server.Env)
	authService := services.NewAuthService(store.users, guard, tokenService, timingDelay, logger, auditLogger, m, cfg.Server.Env)

	router := routes.NewRouter(
		routes.RouterConfig{
			Env:            cfg.Server.Env,
			LoginRateLimit: middleware.RateLimitConfig{RequestsPerMinute: cfg.Server.LoginRateLimitPerMinute},
		},
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(store.health, cfg.Server.StorageBackend),
		tokenService,
		promhttp.Handler(),
		logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	cleanupManager := background.NewCleanupManager(guard, logger, m, cfg.Lockout.CleanupInterval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return cleanupManager.Start(gctx)
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		cleanupManager.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	if cfg.Server.StorageBackend == config.StorageMemory {
		logger.Warn("using in-memory storage, credentials and lockouts are lost on restart")
		return &storage{
			users:    repositories.NewMemoryUserRepository(),
			attempts: repositories.NewMemoryLoginAttemptRepository(),
			close:    func() {},
		}, nil
	}

	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	migrator, err := database.NewMigrator(sqlDB, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &storage{
		users:    repositories.NewUserRepository(db.Pool),
		attempts: repositories.NewLoginAttemptRepository(db.Pool),
		health:   db,
		close:    db.Close,
	}, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
