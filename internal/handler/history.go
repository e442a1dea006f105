package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/queue"
	"CadetTrack/internal/service"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/response"
	"CadetTrack/storage/mq"
	"CadetTrack/utils"
)

// HistoryIndex 月度历史与图表数据
// GET /v1/history
func HistoryIndex(ctx context.Context, c *app.RequestContext) {
	var query dto.HistoryQuery
	if !bind(ctx, c, &query) {
		return
	}

	result, err := service.History().Index(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// HistoryDate 某个日期的学员明细
// GET /v1/history/date
func HistoryDate(ctx context.Context, c *app.RequestContext) {
	var query dto.StudentsQuery
	if !bind(ctx, c, &query) {
		return
	}

	result, err := service.History().DateDetails(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// DownloadHistory 按月或按日导出历史
// GET /v1/history/download
func DownloadHistory(ctx context.Context, c *app.RequestContext) {
	var query dto.HistoryDownloadQuery
	if !bind(ctx, c, &query) {
		return
	}

	body, filename, err := service.History().Download(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Attachment(ctx, c, filename, service.ContentTypeCSV, body)
}

// SaveHistory 手动保存某日快照
// POST /v1/history/save
func SaveHistory(ctx context.Context, c *app.RequestContext) {
	var req dto.SaveHistoryRequest
	if !bind(ctx, c, &req) {
		return
	}

	result, err := service.History().Save(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMessage(ctx, c, "Attendance saved to history successfully.", result)
}

// ArchiveHistory 用实时统计归档某日，queue=true 时投递给 worker
// POST /v1/history/archive
func ArchiveHistory(ctx context.Context, c *app.RequestContext) {
	var req dto.ArchiveRequest
	if !bind(ctx, c, &req) {
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		response.Error(ctx, c, errors.Field("date", "The date is not a valid date."))
		return
	}

	if req.Queue {
		if mq.Connection() == nil {
			response.Error(ctx, c, errors.InvalidRequest.WithMessage("Background archiving is not enabled."))
			return
		}
		messageID, err := queue.PublishHistoryArchive(ctx, date)
		if err != nil {
			response.Error(ctx, c, err)
			return
		}
		response.Accepted(ctx, c, "Archive queued.", dto.ArchiveQueuedResponse{
			MessageID:      messageID,
			AttendanceDate: req.Date,
		})
		return
	}

	result, err := service.History().Archive(ctx, date, "api")
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMessage(ctx, c, "Attendance archived successfully.", result)
}
