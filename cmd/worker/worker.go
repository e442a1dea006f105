package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"CadetTrack/config"
	"CadetTrack/internal/queue"
	"CadetTrack/internal/service"
	"CadetTrack/pkg/logger"
	"CadetTrack/storage"
)

const prefetch = 4

func main() {
	if err := logger.Init("worker"); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(storage.Options{MQ: true}); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() { _ = storage.Close() }()

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	archiver := queue.ArchiverFunc(func(ctx context.Context, date time.Time) error {
		_, err := service.History().Archive(ctx, date, "worker")
		return err
	})

	if err := queue.StartHistoryArchiveConsumer(ctx, archiver, prefetch); err != nil && !errors.Is(err, context.Canceled) {
		logger.Logger.Error("History archive consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
