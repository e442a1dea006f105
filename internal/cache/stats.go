package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"CadetTrack/internal/model/dto"
	"CadetTrack/storage/redis"
)

// 当日统计缓存，打卡写入后按日期失效
const statsPrefix = "stats:daily"

// GetDailyStats 命中返回 true，Redis 未启用时视为未命中
func GetDailyStats(ctx context.Context, date string) (*dto.DailyStats, bool, error) {
	if !redis.Enabled() {
		return nil, false, nil
	}

	raw, err := redis.Client().Get(ctx, redis.Key(statsPrefix, date)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached stats: %w", err)
	}

	var stats dto.DailyStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &stats, true, nil
}

func SetDailyStats(ctx context.Context, stats dto.DailyStats, ttl time.Duration) error {
	if !redis.Enabled() || ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	return redis.Client().Set(ctx, redis.Key(statsPrefix, stats.Date), raw, ttl).Err()
}

func InvalidateDailyStats(ctx context.Context, date string) error {
	if !redis.Enabled() {
		return nil
	}
	return redis.Client().Del(ctx, redis.Key(statsPrefix, date)).Err()
}
