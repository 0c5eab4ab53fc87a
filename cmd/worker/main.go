package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pagewright/pagewright/internal/activities/provision"
	"github.com/pagewright/pagewright/internal/config"
	"github.com/pagewright/pagewright/internal/intelligence"
	"github.com/pagewright/pagewright/internal/repository/postgres"
	"github.com/pagewright/pagewright/internal/storage"
	"github.com/pagewright/pagewright/internal/workflows"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(string(cfg.Env))
	defer logger.Sync()

	logger.Info("Starting PageWright Worker",
		zap.String("environment", string(cfg.Env)),
		zap.String("temporal_address", cfg.Temporal.Address()),
		zap.String("namespace", cfg.Temporal.Namespace),
		zap.String("task_queue", cfg.Temporal.TaskQueue),
	)

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Address(),
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("Failed to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	logger.Info("Connected to Temporal server")

	// Provision activities persist every run, so the worker cannot start
	// without postgres.
	pgDB, err := postgres.New(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pgDB.Close()
	repo := postgres.NewInstantiationRepository(pgDB.DB)

	// Plan snapshots are optional
	var snapshots provision.SnapshotStore
	store, err := storage.NewMinIOClient(storage.MinIOConfig{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		UseSSL:          cfg.MinIO.UseSSL,
		BucketName:      cfg.MinIO.Bucket,
	})
	if err != nil {
		logger.Warn("Failed to connect to MinIO, plan snapshots disabled", zap.Error(err))
	} else {
		snapshots = store
		logger.Info("Connected to MinIO", zap.String("endpoint", cfg.MinIO.Endpoint))
	}

	engine := intelligence.NewEngine(logger)

	// Create worker
	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     cfg.Temporal.WorkerCount,
		MaxConcurrentWorkflowTaskExecutionSize: cfg.Temporal.WorkerCount,
	})

	// Register workflows and activities
	w.RegisterWorkflow(workflows.TemplateProvisionWorkflow)
	provision.RegisterActivities(w, repo, engine, snapshots, logger)

	logger.Info("Registered workflows and activities",
		zap.Int("workflow_count", 1),
		zap.Int("activity_count", 5),
	)

	// Start worker in goroutine
	workerErrors := make(chan error, 1)
	go func() {
		workerErrors <- w.Run(worker.InterruptCh())
	}()

	logger.Info("Worker started successfully",
		zap.String("task_queue", cfg.Temporal.TaskQueue),
	)

	// Wait for shutdown signal or worker error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-workerErrors:
		if err != nil {
			logger.Fatal("Worker error", zap.Error(err))
		}

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		w.Stop()
		logger.Info("Worker stopped gracefully")
	}
}

func initLogger(env string) *zap.Logger {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}
