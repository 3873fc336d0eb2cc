// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/api"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/github"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/metrics"
	"portfolio-backend/internal/realtime"
	"portfolio-backend/internal/storage"
	"portfolio-backend/internal/syncer"
	"portfolio-backend/internal/tracking"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")
	if cfg.GithubUsername == "" {
		logger.Warn("GITHUB_USERNAME is not set; sync requests will fail until it is configured")
	}

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")
	store := database.NewStore(dbpool)

	// 5. Optional Redis for the repository cache and live config updates
	var (
		rdb    *redis.Client
		broker realtime.Broker
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		broker = realtime.NewRedisBroker(rdb, logger)
		logger.Info("Redis connection established")
	}

	// 6. Initialize application components
	metrics.Register(prometheus.DefaultRegisterer)

	ghClient := github.NewClient(cfg.GithubToken, cfg.GithubTimeout, logger)
	if cfg.GithubAPIURL != "" {
		if err := ghClient.SetBaseURL(cfg.GithubAPIURL); err != nil {
			return fmt.Errorf("invalid GITHUB_API_URL: %w", err)
		}
	}
	var fetcher syncer.RepoFetcher = ghClient
	if rdb != nil {
		fetcher = github.NewCachedFetcher(ghClient, rdb, cfg.RepoCacheTTL, logger)
	}
	appSyncer := syncer.NewSyncer(store, fetcher, logger, cfg.GithubUsername, cfg.SyncInterval)

	objects, err := storage.NewDiskStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return err
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	authService := auth.NewService(store, tokens, logger)
	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to create bootstrap admin: %w", err)
		}
	}

	deps := api.Deps{
		Store:          store,
		Syncer:         appSyncer,
		Tracker:        tracking.NewTracker(store, logger),
		Media:          media.NewService(store, objects, logger),
		Auth:           authService,
		Tokens:         tokens,
		RateLimits:     ghClient,
		Broker:         broker,
		Objects:        objects.Handler(),
		Metrics:        promhttp.Handler(),
		MaxUploadBytes: cfg.MediaMaxBytes,
		Logger:         logger,
	}
	if cfg.OAuthEnabled() {
		deps.OAuth = auth.NewGitHubOAuth(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL, cfg.AdminGithubLogins, tokens, logger)
	}

	// 7. Start the background syncer and the HTTP server
	go appSyncer.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 8. Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func runMigrations(source, dbURL string) error {
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
