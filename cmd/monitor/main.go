package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/solwatch/wallet-pnl/internal/application/services"
	"github.com/solwatch/wallet-pnl/internal/config"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/cache"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/database"
	"github.com/solwatch/wallet-pnl/internal/infrastructure/helius"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("Starting holdings monitor",
		zap.Duration("poll_interval", cfg.Monitor.PollInterval),
	)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Connect to Redis cache (optional, used for report invalidation)
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.Redis, cfg.API.CacheTTL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Create repositories
	walletRepo := database.NewWalletRepo(db.DB())
	holdingRepo := database.NewHoldingRepo(db.DB())
	tokenRepo := database.NewTokenRepo(db.DB())
	cursorRepo := database.NewCursorRepo(db.DB())

	// Create the transaction-source client
	heliusClient := helius.NewClient(cfg.Helius, logger)

	// Create and start the monitor
	monitorService := services.NewMonitorService(
		heliusClient,
		walletRepo,
		holdingRepo,
		tokenRepo,
		cursorRepo,
		redisCache,
		cfg.Monitor,
		logger,
	)

	monitorService.Start(ctx)

	// Start metrics server
	go startMetricsServer(cfg.Monitor.MetricsPort, logger)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, stopping monitor...")

	// Graceful shutdown
	monitorService.Stop()

	logger.Info("Monitor stopped")
}

func startMetricsServer(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Metrics server starting", zap.String("addr", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server error", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
