package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/service"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/response"
	"CadetTrack/utils"
)

// RangeReport 区间逐日统计
// GET /v1/reports
func RangeReport(ctx context.Context, c *app.RequestContext) {
	start, end, _, ok := bindReportQuery(ctx, c)
	if !ok {
		return
	}

	report, err := service.Report().RangeReport(ctx, start, end)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, report)
}

// DownloadReport 区间报表下载，format 默认 csv
// GET /v1/reports/download
func DownloadReport(ctx context.Context, c *app.RequestContext) {
	start, end, format, ok := bindReportQuery(ctx, c)
	if !ok {
		return
	}

	body, filename, contentType, err := service.Report().ReportFile(ctx, start, end, format)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Attachment(ctx, c, filename, contentType, body)
}

// StudentsByStatus 某日按状态列出学员
// GET /v1/reports/students
func StudentsByStatus(ctx context.Context, c *app.RequestContext) {
	var query dto.StudentsQuery
	if !bind(ctx, c, &query) {
		return
	}

	result, err := service.Report().StudentsByStatus(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

func bindReportQuery(ctx context.Context, c *app.RequestContext) (start, end time.Time, format string, ok bool) {
	var query dto.ReportQuery
	if !bind(ctx, c, &query) {
		return
	}

	var err error
	if start, err = utils.ParseDate(query.StartDate); err != nil {
		response.Error(ctx, c, errors.Field("start_date", "The start date is not a valid date."))
		return
	}
	if end, err = utils.ParseDate(query.EndDate); err != nil {
		response.Error(ctx, c, errors.Field("end_date", "The end date is not a valid date."))
		return
	}
	return start, end, query.Format, true
}
