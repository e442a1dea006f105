package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/service"
	"CadetTrack/pkg/response"
)

// ListAttendance 某日打卡记录与统计
// GET /v1/attendance
func ListAttendance(ctx context.Context, c *app.RequestContext) {
	var query dto.AttendanceQuery
	if !bind(ctx, c, &query) {
		return
	}

	result, err := service.Attendance().List(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// StoreAttendance 记录打卡，晚于截止时间的 present 会改为 late
// POST /v1/attendance
func StoreAttendance(ctx context.Context, c *app.RequestContext) {
	var req dto.StoreAttendanceRequest
	if !bind(ctx, c, &req) {
		return
	}

	result, err := service.Attendance().Record(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, "Attendance recorded successfully.", result)
}

// TodayAttendance 今天的全部记录
// GET /v1/attendance/today
func TodayAttendance(ctx context.Context, c *app.RequestContext) {
	result, err := service.Attendance().TodayRecords(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// AttendanceStats 今天的统计
// GET /v1/attendance/stats
func AttendanceStats(ctx context.Context, c *app.RequestContext) {
	stats, err := service.Attendance().TodayStats(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, stats)
}

// RecentAttendance 最近的打卡
// GET /v1/attendance/recent
func RecentAttendance(ctx context.Context, c *app.RequestContext) {
	var query dto.RecentQuery
	if !bind(ctx, c, &query) {
		return
	}

	records, err := service.Attendance().Recent(ctx, query.Limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, records)
}

// ExportAttendance 导出某日打卡明细
// GET /v1/attendance/export
func ExportAttendance(ctx context.Context, c *app.RequestContext) {
	var query dto.ExportQuery
	if !bind(ctx, c, &query) {
		return
	}

	body, filename, err := service.Attendance().ExportCSV(ctx, query.Date)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Attachment(ctx, c, filename, service.ContentTypeCSV, body)
}
