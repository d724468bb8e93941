package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/crmsync/internal/server/cache"
	"github.com/iudanet/crmsync/internal/server/handlers"
	"github.com/iudanet/crmsync/internal/server/middleware"
	"github.com/iudanet/crmsync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	shutdownTimeout        = 10 * time.Second
	tokenCleanupInterval   = time.Hour
)

type config struct {
	addr            string
	dbPath          string
	redisAddr       string
	jwtSecret       string
	cacheTTL        time.Duration
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	cfg := parseConfig()
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func parseConfig() *config {
	cfg := &config{}
	flag.StringVar(&cfg.addr, "addr", envOrDefault("CRMSYNC_ADDR", ":8080"), "HTTP listen address")
	flag.StringVar(&cfg.dbPath, "db", envOrDefault("CRMSYNC_DB", "crmsync.db"), "Path to SQLite database")
	flag.StringVar(&cfg.redisAddr, "redis", os.Getenv("CRMSYNC_REDIS"), "Redis address for list cache (empty disables caching)")
	flag.DurationVar(&cfg.cacheTTL, "cache-ttl", cache.DefaultTTL, "List cache TTL")
	flag.DurationVar(&cfg.accessTokenTTL, "access-ttl", defaultAccessTokenTTL, "Access token TTL")
	flag.DurationVar(&cfg.refreshTokenTTL, "refresh-ttl", defaultRefreshTokenTTL, "Refresh token TTL")
	cfg.jwtSecret = os.Getenv("CRMSYNC_JWT_SECRET")
	return cfg
}

func run(cfg *config, logger *slog.Logger) error {
	if cfg.jwtSecret == "" {
		return errors.New("CRMSYNC_JWT_SECRET environment variable is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	// Кеш опционален, без Redis все list-запросы идут в БД
	var listCache handlers.ListCache
	var cachePinger handlers.Pinger
	if cfg.redisAddr != "" {
		c := cache.New(&redis.Options{Addr: cfg.redisAddr}, cfg.cacheTTL, logger)
		if err := c.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Error("failed to close cache", "error", err)
			}
		}()
		listCache = c
		cachePinger = c
		logger.Info("list cache enabled", "redis", cfg.redisAddr, "ttl", cfg.cacheTTL)
	}

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(cfg.jwtSecret),
		AccessTokenTTL:  cfg.accessTokenTTL,
		RefreshTokenTTL: cfg.refreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	recordsHandler := handlers.NewRecordsHandler(logger, store, listCache)
	healthHandler := handlers.NewHealthHandler(logger, Version, store, cachePinger)

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           buildRouter(logger, jwtConfig, authHandler, recordsHandler, healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go cleanupExpiredTokens(ctx, store, logger)

	errC := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func buildRouter(
	logger *slog.Logger,
	jwtConfig handlers.JWTConfig,
	authHandler *handlers.AuthHandler,
	recordsHandler *handlers.RecordsHandler,
	healthHandler *handlers.HealthHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)

	// CRUD записей доступен только с валидным access token
	authMw := middleware.AuthMiddleware(logger, jwtConfig)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMw(h)
	}
	mux.Handle("GET /api/v1/{entity}", protected(recordsHandler.List))
	mux.Handle("POST /api/v1/{entity}", protected(recordsHandler.Create))
	mux.Handle("DELETE /api/v1/{entity}", protected(recordsHandler.BulkDelete))
	mux.Handle("PATCH /api/v1/{entity}/{id}", protected(recordsHandler.Update))
	mux.Handle("PUT /api/v1/{entity}/{id}", protected(recordsHandler.Replace))
	mux.Handle("DELETE /api/v1/{entity}/{id}", protected(recordsHandler.Delete))

	// Auth эндпоинты лимитируются жестче, чем работа с записями
	rateLimits := []middleware.PathRateLimit{
		{Path: "/api/v1/auth/login", Rate: 10, Window: time.Minute},
		{Path: "/api/v1/auth/register", Rate: 5, Window: time.Minute},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitByPathMiddleware(rateLimits, 300, time.Minute, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)
	return handler
}

// cleanupExpiredTokens периодически удаляет истекшие refresh tokens
func cleanupExpiredTokens(ctx context.Context, store *sqlite.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.DeleteExpiredTokens(ctx)
			if err != nil {
				logger.Error("failed to delete expired tokens", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired tokens deleted", "count", deleted)
			}
		}
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("CRMSync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
