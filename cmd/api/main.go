package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pagewright/pagewright/internal/api"
	"github.com/pagewright/pagewright/internal/api/middleware"
	"github.com/pagewright/pagewright/internal/assistant"
	"github.com/pagewright/pagewright/internal/config"
	"github.com/pagewright/pagewright/internal/feedback"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/observability"
	"github.com/pagewright/pagewright/internal/repository/postgres"
	rediscache "github.com/pagewright/pagewright/internal/repository/redis"
	"github.com/pagewright/pagewright/internal/services/export"
	"github.com/pagewright/pagewright/internal/services/siteimport"
	"github.com/pagewright/pagewright/internal/storage"
	"github.com/pagewright/pagewright/internal/temporal"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(string(cfg.Env), cfg.GetLogLevel())
	defer logger.Sync()

	logger.Info("Starting PageWright API",
		zap.String("environment", string(cfg.Env)),
	)

	// Connect to PostgreSQL (optional; the engine itself holds no state)
	var repos *postgres.Repositories
	db, err := postgres.New(cfg.Database)
	if err != nil {
		logger.Warn("Failed to connect to PostgreSQL, feedback and shares disabled", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
		repos = postgres.NewRepositories(db.DB)
		logger.Info("Connected to PostgreSQL",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
		)
	}

	// Connect to Redis (optional)
	cache, err := rediscache.New(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Connect to MinIO (optional)
	store, err := storage.NewMinIOClient(storage.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		UseSSL:          cfg.MinIO.UseSSL,
		BucketName:      cfg.MinIO.Bucket,
	})
	if err != nil {
		logger.Warn("Failed to connect to MinIO, snapshots disabled", zap.Error(err))
		store = nil
	} else {
		logger.Info("Connected to MinIO", zap.String("endpoint", cfg.MinIO.Endpoint))
	}

	// Connect to Temporal (optional; provisioning falls back to inline mode)
	var starter *temporal.ProvisionStarter
	tc, err := temporal.NewClient(cfg.Temporal, logger)
	if err != nil {
		logger.Warn("Failed to connect to Temporal, durable provisioning disabled", zap.Error(err))
		tc = nil
	} else {
		defer tc.Close()
		logger.Info("Connected to Temporal",
			zap.String("address", cfg.Temporal.Address()),
			zap.String("namespace", cfg.Temporal.Namespace),
		)
	}
	if tc != nil && repos != nil {
		starter = temporal.NewProvisionStarter(tc, repos.Instantiations, middleware.GetTenantID, logger)
	}

	// Browser-backed site analysis (optional, heavyweight)
	var importer *siteimport.Importer
	if cfg.Import.Enabled {
		importOpts := []siteimport.Option{
			siteimport.WithTenantResolver(middleware.GetTenantID),
		}
		if store != nil {
			importOpts = append(importOpts, siteimport.WithScreenshotStore(store))
		}
		importer, err = siteimport.NewImporter(siteimport.Config{
			Headless:     cfg.Import.Headless,
			Timeout:      cfg.Import.Timeout,
			RateLimitRPM: cfg.Import.RateLimitRPM,
			Screenshots:  cfg.Import.Screenshots,
		}, logger, importOpts...)
		if err != nil {
			logger.Warn("Failed to start site importer, using simulated analysis", zap.Error(err))
			importer = nil
		} else {
			defer importer.Close()
			logger.Info("Site importer ready", zap.Bool("headless", cfg.Import.Headless))
		}
	}

	// Recommendation engine
	engineOpts := []intelligence.MatcherOption{}
	if cfg.Engine.DeterministicIDs {
		var seq atomic.Uint64
		engineOpts = append(engineOpts, intelligence.WithIDGenerator(func() string {
			return fmt.Sprintf("comp-%d", seq.Add(1))
		}))
	}
	engine := intelligence.NewEngine(logger, engineOpts...)

	// Layered result cache over engine output
	var redisClient *redis.Client
	if cache != nil {
		redisClient = cache.Client()
	}
	cacheCfg := rediscache.DefaultResultCacheConfig()
	cacheCfg.RedisEnabled = cache != nil
	cacheCfg.RedisTTL = cfg.Engine.CacheTTL
	cacheCfg.MemoryTTL = cfg.Engine.CacheTTL
	resultCache := rediscache.NewResultCache(cacheCfg, redisClient, logger)

	metrics := observability.NewMetrics("pagewright")
	resultCache.AttachMetrics(metrics)

	// Assistant over the engine
	assistantOpts := []assistant.Option{}
	if cfg.Engine.AssistantDelay > 0 {
		assistantOpts = append(assistantOpts, assistant.WithDelay(cfg.Engine.AssistantDelay))
	}
	if cfg.Engine.AssistantFailureRate > 0 {
		assistantOpts = append(assistantOpts, assistant.WithFailureRate(cfg.Engine.AssistantFailureRate))
	}
	if importer != nil {
		assistantOpts = append(assistantOpts, assistant.WithSiteAnalyzer(importer))
	}
	if starter != nil {
		assistantOpts = append(assistantOpts, assistant.WithWorkflowStarter(starter))
	}
	helper := assistant.New(engine, logger, assistantOpts...)

	// Persistence-backed services (only with postgres)
	var recorder *feedback.Recorder
	var shares *export.ShareService
	if repos != nil {
		recorder = feedback.NewRecorder(repos.Feedback, logger)

		var snapshots export.SnapshotStore
		if store != nil {
			snapshots = store
		}
		shares, err = export.NewShareService(export.Config{
			BaseURL: cfg.Server.PublicBaseURL,
		}, repos.Shares, snapshots, logger)
		if err != nil {
			logger.Fatal("Failed to build share service", zap.Error(err))
		}
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Engine:            engine,
		Assistant:         helper,
		Recorder:          recorder,
		Shares:            shares,
		DB:                db,
		Repos:             repos,
		Cache:             cache,
		ResultCache:       resultCache,
		Metrics:           metrics,
		Logger:            logger,
		EnableCORS:        true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimit:         cfg.Server.RateLimitPerMin,
		Development:       cfg.IsDevelopment(),
		AsyncProvisioning: starter != nil,
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
		logger.Info("API server listening", zap.String("addr", server.Addr))
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
func initLogger(env, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
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

	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		// Fall back to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
