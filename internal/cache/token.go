package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"CadetTrack/config"
	"CadetTrack/storage/redis"
)

const tokenPrefix = "token"

// SetRefreshToken 记录用户当前有效的 refresh token，新登录会顶掉旧的
func SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	if !redis.Enabled() {
		return nil
	}
	ttl := time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
	return redis.Client().Set(ctx, redis.Key(tokenPrefix, "refresh", userID), refreshToken, ttl).Err()
}

// DeleteRefreshToken 登出时调用
func DeleteRefreshToken(ctx context.Context, userID string) error {
	if !redis.Enabled() {
		return nil
	}
	return redis.Client().Del(ctx, redis.Key(tokenPrefix, "refresh", userID)).Err()
}

// ValidateRefreshTokenExists 检查 refresh token 是否仍是最新签发的那个
// Redis 未启用时只依赖 JWT 自身的签名与过期
func ValidateRefreshTokenExists(ctx context.Context, userID, refreshToken string) (bool, error) {
	if !redis.Enabled() {
		return true, nil
	}
	stored, err := redis.Client().Get(ctx, redis.Key(tokenPrefix, "refresh", userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == refreshToken, nil
}
