package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"CadetTrack/config"
	"CadetTrack/internal/cache"
	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/repository"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/logger"
	"CadetTrack/pkg/metrics"
	"CadetTrack/storage/database"
	"CadetTrack/utils"
)

const (
	studentsPerPage = 30
	// maxReportDays 区间报表最多覆盖的天数（含首尾）
	maxReportDays = 366
)

var (
	reportService *ReportService
	reportOnce    sync.Once
)

// Report 统计与报表
func Report() *ReportService {
	reportOnce.Do(func() {
		reportService = NewReportService(database.DB())
	})
	return reportService
}

type ReportService struct {
	cadets   *repository.CadetRepository
	records  *repository.AttendanceRepository
	statsTTL time.Duration
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		cadets:   repository.NewCadetRepository(db),
		records:  repository.NewAttendanceRepository(db),
		statsTTL: config.Cfg.StatsCacheTTL(),
	}
}

// DailyStats 单日统计，优先读缓存
func (s *ReportService) DailyStats(ctx context.Context, date time.Time) (dto.DailyStats, error) {
	key := date.Format(utils.DateLayout)

	if cached, ok, err := cache.GetDailyStats(ctx, key); err != nil {
		logger.Logger.Warn("Failed to read stats cache", zap.String("date", key), zap.Error(err))
	} else if ok {
		return *cached, nil
	}

	stats, err := s.computeDaily(ctx, date)
	if err != nil {
		return dto.DailyStats{}, err
	}

	if err := cache.SetDailyStats(ctx, stats, s.statsTTL); err != nil {
		logger.Logger.Warn("Failed to write stats cache", zap.String("date", key), zap.Error(err))
	}
	return stats, nil
}

func (s *ReportService) computeDaily(ctx context.Context, date time.Time) (dto.DailyStats, error) {
	total, err := s.cadets.Count(ctx)
	if err != nil {
		return dto.DailyStats{}, err
	}

	present, late, err := s.records.CountRecorded(ctx, datatypes.Date(date))
	if err != nil {
		return dto.DailyStats{}, err
	}

	return ComputeDaily(date, int(total), int(present), int(late)), nil
}

// RangeReport 逐日统计 [start, end]，总人数取当前名册
func (s *ReportService) RangeReport(ctx context.Context, start, end time.Time) (*dto.RangeReport, error) {
	if end.Before(start) {
		return nil, errors.Field("end_date", "The end date must be a date after or equal to start date.")
	}
	if end.After(start.AddDate(0, 0, maxReportDays-1)) {
		return nil, errors.Field("end_date", fmt.Sprintf("The date range must not exceed %d days.", maxReportDays))
	}

	total, err := s.cadets.Count(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.records.RecordedBetween(ctx, datatypes.Date(start), datatypes.Date(end))
	if err != nil {
		return nil, err
	}

	type counts struct{ present, late int }
	byDate := make(map[string]*counts)
	for _, row := range rows {
		key := time.Time(row.AttendanceDate).Format(utils.DateLayout)
		c, ok := byDate[key]
		if !ok {
			c = &counts{}
			byDate[key] = c
		}
		switch row.Status {
		case model.StatusPresent:
			c.present++
		case model.StatusLate:
			c.late++
		}
	}

	days := utils.Days(start, end)
	report := &dto.RangeReport{
		StartDate:   start.Format(utils.DateLayout),
		EndDate:     end.Format(utils.DateLayout),
		TotalCadets: int(total),
		Daily:       make([]dto.DailyStats, 0, len(days)),
	}

	rates := make([]float64, 0, len(days))
	for _, day := range days {
		c := byDate[day.Format(utils.DateLayout)]
		if c == nil {
			c = &counts{}
		}
		daily := ComputeDaily(day, int(total), c.present, c.late)
		report.Daily = append(report.Daily, daily)
		report.Present += daily.Present
		report.Late += daily.Late
		report.Absent += daily.Absent
		rates = append(rates, daily.AttendanceRate)
	}
	report.AverageRate = AverageRate(rates)

	return report, nil
}

// ReportFile 区间报表导出，format 为 csv 或 xlsx
func (s *ReportService) ReportFile(ctx context.Context, start, end time.Time, format string) (body []byte, filename, contentType string, err error) {
	report, err := s.RangeReport(ctx, start, end)
	if err != nil {
		return nil, "", "", err
	}

	rows := make([]SummaryRow, 0, len(report.Daily))
	for _, d := range report.Daily {
		rows = append(rows, SummaryRow{
			Date:        d.Date,
			TotalCadets: d.TotalCadets,
			Present:     d.Present,
			Late:        d.Late,
			Absent:      d.Absent,
			Rate:        d.AttendanceRate,
		})
	}

	base := fmt.Sprintf("report-%s-to-%s", report.StartDate, report.EndDate)
	if format == "xlsx" {
		body, err = WriteSummaryXLSX(rows)
		contentType = ContentTypeXLSX
		filename = base + ".xlsx"
	} else {
		format = "csv"
		body, err = WriteSummaryCSV(rows)
		contentType = ContentTypeCSV
		filename = base + ".csv"
	}
	if err != nil {
		return nil, "", "", err
	}

	metrics.RecordExport(ctx, "report", format)
	return body, filename, contentType, nil
}

// StudentsByStatus 按状态列出学员，absent 为没有 present/late 记录的学员
func (s *ReportService) StudentsByStatus(ctx context.Context, q dto.StudentsQuery) (*dto.StudentsResponse, error) {
	date, err := utils.ParseDate(q.Date)
	if err != nil {
		return nil, errors.Field("date", "The date is not a valid date.")
	}
	q.Normalize(studentsPerPage)
	d := datatypes.Date(date)

	resp := &dto.StudentsResponse{
		Date:     q.Date,
		Status:   q.Status,
		Students: []dto.StudentData{},
	}

	var total int64
	switch q.Status {
	case string(model.StatusAbsent):
		cadets, n, err := s.cadets.Absent(ctx, d, q.Search, q.Offset(), q.PerPage)
		if err != nil {
			return nil, err
		}
		total = n
		for i := range cadets {
			resp.Students = append(resp.Students, studentFromCadet(&cadets[i], nil))
		}

	case string(model.StatusPresent), string(model.StatusLate):
		records, n, err := s.records.List(ctx, repository.RecordFilter{
			Date:    d,
			Status:  model.AttendanceStatus(q.Status),
			Search:  q.Search,
			OrderBy: "timestamp",
			Offset:  q.Offset(),
			Limit:   q.PerPage,
		})
		if err != nil {
			return nil, err
		}
		total = n
		for i := range records {
			resp.Students = append(resp.Students, studentFromCadet(records[i].Cadet, &records[i]))
		}

	default: // all
		cadets, n, err := s.cadets.List(ctx, q.Search, q.Offset(), q.PerPage)
		if err != nil {
			return nil, err
		}
		total = n

		ids := make([]string, len(cadets))
		for i := range cadets {
			ids[i] = cadets[i].CadetID
		}
		byCadet, err := s.records.ForCadets(ctx, d, ids)
		if err != nil {
			return nil, err
		}

		for i := range cadets {
			var rec *model.AttendanceRecord
			if r, ok := byCadet[cadets[i].CadetID]; ok && r.Status.Recorded() {
				rec = &r
			}
			resp.Students = append(resp.Students, studentFromCadet(&cadets[i], rec))
		}
	}

	resp.Pagination = dto.NewPagination(q.Page, q.PerPage, total)
	return resp, nil
}

// studentFromCadet rec 为空或非到场时视为 absent
func studentFromCadet(c *model.Cadet, rec *model.AttendanceRecord) dto.StudentData {
	out := dto.StudentData{Status: string(model.StatusAbsent)}
	if c != nil {
		out.CadetID = c.CadetID
		out.Name = c.Name
		out.Designation = c.Designation
		out.CourseYear = c.CourseYear
		out.Sex = string(c.Sex)
	}
	if rec != nil && rec.Status.Recorded() {
		if out.CadetID == "" {
			out.CadetID = rec.CadetID
		}
		out.Status = string(rec.Status)
		ts := rec.Timestamp
		clock := rec.AttendanceTime.String()
		out.Timestamp = &ts
		out.AttendanceTime = &clock
	}
	return out
}
