package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"CadetTrack/pkg/logger"
	"CadetTrack/storage/database"
	"CadetTrack/storage/mq"
	"CadetTrack/storage/redis"
)

const closeTimeout = 15 * time.Second

// Close 按 MQ、Redis、数据库的顺序关闭连接，先停掉新消息再释放数据库
// 未打开的连接会被跳过
func Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	steps := []struct {
		name  string
		close func(context.Context) error
	}{
		{"rabbitmq", mq.Close},
		{"redis", redis.Close},
		{"database", database.Close},
	}

	var errs []error
	for _, step := range steps {
		if err := step.close(ctx); err != nil {
			logger.Logger.Error("Failed to close storage connection",
				zap.String("component", step.name),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		logger.Logger.Debug("Storage connection closed", zap.String("component", step.name))
	}

	logger.Logger.Info("All storage connections closed", zap.Int("error_count", len(errs)))
	return errors.Join(errs...)
}
