package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stuapp/suggest-api/internal/config"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/logger"
	"github.com/stuapp/suggest-api/internal/queue"
	"github.com/stuapp/suggest-api/internal/workers"
	"go.uber.org/zap"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.WorkerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_worker",
		zap.Bool("debug_mode", debugMode),
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// Initialize RabbitMQ queue
	auditQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq", zap.Error(err))
	}
	defer func() {
		if err := auditQueue.Close(); err != nil {
			zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_rabbitmq")

	auditRepo := database.NewAuditEventRepository(db)

	sink := workers.NewAuditSink(auditQueue, auditRepo, zapLogger, cfg.RabbitMQPrefetch)
	retention := workers.NewRetentionWorker(auditRepo, zapLogger,
		workers.DefaultRetentionInterval, workers.DefaultRetention)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// The sink is the worker's reason to exist: if its consume loop breaks,
	// shut the whole process down so the orchestrator restarts it.
	sinkDone := make(chan error, 1)
	go func() {
		sinkDone <- sink.Run(ctx)
	}()

	go func() {
		if err := retention.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("retention_worker_stopped", zap.Error(err))
		}
	}()

	zapLogger.Info("worker_started")

	select {
	case <-sigChan:
		zapLogger.Info("shutdown_signal_received")
	case err := <-sinkDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("audit_sink_stopped", zap.Error(err))
		}
	}

	cancel()
	zapLogger.Info("worker_stopped")
}
