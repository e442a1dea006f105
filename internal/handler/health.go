package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"CadetTrack/storage/database"
	"CadetTrack/storage/redis"
)

// Health 存活与依赖检查，数据库不可用时返回 503
// GET /v1/healthz
func Health(ctx context.Context, c *app.RequestContext) {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := utils.H{"database": "ok", "redis": "disabled"}

	if sqlDB, err := database.DB().DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if redis.Enabled() {
		checks["redis"] = "ok"
		if err := redis.Client().Ping(checkCtx).Err(); err != nil {
			checks["redis"] = "unavailable"
		}
	}

	c.JSON(status, utils.H{
		"success": status == http.StatusOK,
		"data":    checks,
	})
}
