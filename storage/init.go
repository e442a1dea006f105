package storage

import (
	"go.uber.org/zap"

	"CadetTrack/config"
	"CadetTrack/pkg/logger"
	"CadetTrack/storage/database"
	"CadetTrack/storage/mq"
	"CadetTrack/storage/redis"
)

// Options 各进程按需打开的连接
type Options struct {
	MQ bool
}

// Init 统一 init storage 层，数据库必需，Redis 可降级
func Init(opts Options) error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		if config.Cfg.IsProduction() {
			return err
		}
		logger.Logger.Warn("Redis unavailable, running without cache", zap.Error(err))
	}

	if opts.MQ {
		if err := mq.Init(); err != nil {
			return err
		}
	}

	return nil
}
