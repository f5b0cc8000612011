package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"best-coupon/internal/auth"
	"best-coupon/internal/config"
	"best-coupon/internal/database"
	"best-coupon/internal/handler"
	"best-coupon/internal/metrics"
	"best-coupon/internal/repository"
	"best-coupon/internal/router"
	"best-coupon/internal/seed"
	"best-coupon/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting best-coupon API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repository, optionally behind the Redis catalog cache
	couponRepo := repository.NewCouponRepository(pool, logger)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			// The cache degrades to pass-through on errors, so an unreachable server is not fatal.
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis ping failed, catalog cache will fall through to the database")
		}
		couponRepo = repository.NewCachedCouponRepository(couponRepo, redisClient, cfg.Redis.TTL(), logger)
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize services
	couponService := service.NewCouponService(couponRepo, logger, service.WithMetrics(m))

	credentials, err := auth.NewStaticCredentialStore(auth.DemoProfile(cfg.Auth.DemoEmail), cfg.Auth.DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to initialize credential store: %w", err)
	}
	var tokens service.TokenIssuer
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	} else {
		logger.Info().Msg("JWT_SECRET not set, login will not issue tokens")
	}
	authService := service.NewAuthService(credentials, tokens, m, logger)

	if cfg.Seed.Enabled {
		if err := seedCatalog(ctx, cfg, couponRepo, m, logger); err != nil {
			return fmt.Errorf("failed to seed coupon catalog: %w", err)
		}
	}

	// Initialize HTTP handlers
	couponHandler := handler.NewCouponHandler(couponService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	// Initialize router
	mux := router.New(couponHandler, authHandler, m, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCatalog admits the configured seed files, reading from S3 first when enabled.
// Seeded coupons are counted by the seeder only, so the admitting service is built without metrics.
func seedCatalog(ctx context.Context, cfg *config.Config, repo repository.CouponRepository, m *metrics.Metrics, logger zerolog.Logger) error {
	admitter := service.NewCouponService(repo, logger)

	fileLoader := seed.NewFileLoader(logger)

	var s3Loader seed.Loader
	if cfg.S3.Enabled {
		loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for seed files (S3 disabled)")
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	_, err := seed.NewSeeder(loader, admitter, m, logger).Run(ctx, cfg.Seed.Files)
	return err
}
