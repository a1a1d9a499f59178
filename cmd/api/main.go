package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uxbench/uxbench/internal/api"
	"github.com/uxbench/uxbench/internal/api/handlers"
	"github.com/uxbench/uxbench/internal/benchmark"
	"github.com/uxbench/uxbench/internal/browser"
	"github.com/uxbench/uxbench/internal/config"
	"github.com/uxbench/uxbench/internal/goal"
	"github.com/uxbench/uxbench/internal/journey"
	"github.com/uxbench/uxbench/internal/observability"
	"github.com/uxbench/uxbench/internal/reporting"
	"github.com/uxbench/uxbench/internal/repository/postgres"
	rediscache "github.com/uxbench/uxbench/internal/repository/redis"
	"github.com/uxbench/uxbench/internal/services/runner"
	"github.com/uxbench/uxbench/internal/storage"
)

func main() {
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting UXBench API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", string(cfg.Env)),
	)

	// Connect to PostgreSQL
	db, err := postgres.New(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
	)

	// Connect to Redis (optional)
	var cache *rediscache.Cache
	cache, err = rediscache.New(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Connect to MinIO (optional, screenshots and reports need it)
	var store *storage.MinIOClient
	store, err = storage.NewMinIOClient(storage.MinIOConfig{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKey,
		SecretAccessKey: cfg.Storage.SecretKey,
		UseSSL:          cfg.Storage.UseSSL,
		BucketName:      cfg.Storage.Bucket,
	})
	if err != nil {
		logger.Warn("Failed to connect to object storage, screenshots disabled", zap.Error(err))
		store = nil
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		logger.Info("Connected to object storage", zap.String("endpoint", cfg.Storage.Endpoint))
	}

	// Launch the shared browser
	launcher, err := browser.NewLauncher(browser.Config{
		Headless:      cfg.Browser.Headless,
		NavTimeout:    cfg.Browser.NavTimeout,
		ActionTimeout: cfg.Browser.ActionTimeout,
		UserAgent:     cfg.Browser.UserAgent,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to launch browser", zap.Error(err))
	}
	defer launcher.Close()

	// Metrics, with a background sampler for the pool and goroutine gauges
	metrics := observability.NewMetrics(cfg.App.Name)
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			stats := db.Stats()
			metrics.RecordSystemStats(stats.InUse, stats.Idle, runtime.NumGoroutine())
		}
	}()

	// Wire the benchmark pipeline
	interp := goal.NewInterpreter(cfg.Goal.Thresholds())

	var shots journey.ScreenshotStore
	if store != nil {
		shots = store
	}
	orch := benchmark.New(launcher, interp, shots, logger)

	var reporter runner.Reporter
	var reports handlers.ReportStore
	if store != nil {
		gen, err := reporting.NewGenerator(store, logger)
		if err != nil {
			logger.Fatal("Failed to build report generator", zap.Error(err))
		}
		reporter = gen
		reports = store
	}

	repos := postgres.NewRepositories(db)
	runSvc := runner.NewService(repos.Benchmarks, cache, orch, reporter, metrics, logger)

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:         db,
		Benchmarks: repos.Benchmarks,
		Cache:      cache,
		Runner:     runSvc,
		Reports:    reports,
		Metrics:    metrics,
		Logger:     logger,
		EnableCORS: cfg.Security.CORSEnabled,
		RateLimit:  cfg.RateLimits.RequestsPerMin,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", cfg.Server.Addr()))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}

// initLogger creates a configured zap logger
func initLogger(cfg *config.Config) *zap.Logger {
	var zapLevel zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var logCfg zap.Config
	if cfg.IsProduction() {
		logCfg = zap.NewProductionConfig()
	} else {
		logCfg = zap.NewDevelopmentConfig()
		logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := logCfg.Build()
	if err != nil {
		// Fall back to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
