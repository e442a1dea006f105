package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"CadetTrack/config"
	"CadetTrack/internal/schedule"
	"CadetTrack/pkg/logger"
	"CadetTrack/pkg/snowflake"
	"CadetTrack/storage"
)

func main() {
	if err := logger.Init("scheduler"); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(storage.Options{MQ: true}); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer func() { _ = storage.Close() }()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
		zap.String("archive_at", config.Cfg.ArchiveAt),
		zap.String("timezone", config.Cfg.Timezone),
	)

	runArchiveLoop(ctx)

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runArchiveLoop 每天 ARCHIVE_AT 投递一次归档，开发环境改为每分钟一次
func runArchiveLoop(ctx context.Context) {
	s := schedule.GetScheduler()

	if config.Cfg.IsDevelopment() {
		s.SetLockTTL(50 * time.Second)
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Archive scheduler running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				runOnce(ctx, s, now)
			}
		}
	}

	loc := config.Cfg.Location()
	for {
		now := time.Now()
		next, err := schedule.NextRun(now, config.Cfg.ArchiveAt, loc)
		if err != nil {
			logger.Logger.Error("Failed to compute next archive run", zap.Error(err))
			return
		}

		delay := next.Sub(now)
		logger.Logger.Info("Scheduled next archive run",
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case fired := <-timer.C:
			runOnce(ctx, s, fired)
		}
	}
}

func runOnce(ctx context.Context, s *schedule.ArchiveScheduler, now time.Time) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := s.ArchiveDay(runCtx, now); err != nil {
		logger.Logger.Error("Archive scheduler run failed", zap.Error(err))
	}
}
