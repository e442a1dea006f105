package cache

import (
	"context"
	"time"

	"CadetTrack/storage/redis"
)

// 基于 SETNX 的分布式锁，多个 scheduler 实例同一天只投递一次归档
const lockPrefix = "lock"

// TryLock Redis 未启用时直接视为拿到锁
func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if !redis.Enabled() {
		return true, nil
	}
	return redis.Client().SetNX(ctx, redis.Key(lockPrefix, key), 1, ttl).Result()
}

func Unlock(ctx context.Context, key string) error {
	if !redis.Enabled() {
		return nil
	}
	return redis.Client().Del(ctx, redis.Key(lockPrefix, key)).Err()
}
