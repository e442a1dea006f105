package middleware

import (
	"go.uber.org/zap"

	"CadetTrack/pkg/logger"
)

// Init 初始化依赖 token 生成器的中间件
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
