package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"CadetTrack/config"
	"CadetTrack/internal/handler"
	"CadetTrack/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.RequestIDMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())
	if config.Cfg.CSRFEnabled {
		h.Use(middleware.CSRFMiddleware()...)
	}

	v1 := h.Group("/v1")
	v1.GET("/healthz", handler.Health)

	// 认证相关路由
	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.AuthRateLimitMiddleware(), handler.Login)
		auth.POST("/register", middleware.AuthRateLimitMiddleware(), handler.Register)
		auth.POST("/refresh", middleware.AuthRateLimitMiddleware(), handler.RefreshToken)

		authed := auth.Group("", middleware.AuthMiddleware())
		authed.GET("/me", handler.Me)
		authed.GET("/csrf-token", handler.CSRFToken)
		authed.POST("/logout", handler.Logout)
	}

	// 打卡
	attendance := v1.Group("/attendance", middleware.AuthMiddleware())
	{
		attendance.GET("", handler.ListAttendance)
		attendance.POST("", handler.StoreAttendance)
		attendance.GET("/today", handler.TodayAttendance)
		attendance.GET("/stats", handler.AttendanceStats)
		attendance.GET("/recent", handler.RecentAttendance)
		attendance.GET("/export", handler.ExportAttendance)
	}

	// 历史归档
	history := v1.Group("/history", middleware.AuthMiddleware())
	{
		history.GET("", handler.HistoryIndex)
		history.GET("/date", handler.HistoryDate)
		history.GET("/download", handler.DownloadHistory)
		history.POST("/save", handler.SaveHistory)
		history.POST("/archive", handler.ArchiveHistory)
	}

	// 报表
	reports := v1.Group("/reports", middleware.AuthMiddleware())
	{
		reports.GET("", handler.RangeReport)
		reports.GET("/students", handler.StudentsByStatus)
		reports.GET("/download", handler.DownloadReport)
	}

	// 学员名册
	cadets := v1.Group("/cadets", middleware.AuthMiddleware())
	{
		cadets.GET("", handler.ListCadets)
		cadets.POST("", handler.CreateCadet)
		cadets.GET("/count", handler.CountCadets)
		cadets.GET("/:cadet_id", handler.GetCadet)
		cadets.PUT("/:cadet_id", handler.UpdateCadet)
		cadets.DELETE("/:cadet_id", handler.DeleteCadet)
	}
}
