package service

import (
	"context"
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
	recordsPerPage = 30
	recentLimit    = 5
)

var (
	attendanceService *AttendanceService
	attendanceOnce    sync.Once
)

// Attendance 打卡写入与当日查询
func Attendance() *AttendanceService {
	attendanceOnce.Do(func() {
		attendanceService = NewAttendanceService(database.DB(), Report())
	})
	return attendanceService
}

type AttendanceService struct {
	cadets  *repository.CadetRepository
	records *repository.AttendanceRepository
	report  *ReportService
	now     func() time.Time
	loc     *time.Location
	cutoff  time.Duration
}

func NewAttendanceService(db *gorm.DB, report *ReportService) *AttendanceService {
	cutoff, err := utils.ParseClock(config.Cfg.AttendanceCutoff)
	if err != nil {
		cutoff = 8*time.Hour + 30*time.Minute
	}

	return &AttendanceService{
		cadets:  repository.NewCadetRepository(db),
		records: repository.NewAttendanceRepository(db),
		report:  report,
		now:     time.Now,
		loc:     config.Cfg.Location(),
		cutoff:  cutoff,
	}
}

// Today 配置时区下的今天
func (s *AttendanceService) Today() time.Time {
	return utils.DateOf(s.now(), s.loc)
}

// Record 写入一条打卡，状态按截止时间校正
func (s *AttendanceService) Record(ctx context.Context, req dto.StoreAttendanceRequest) (*dto.StoreAttendanceResponse, error) {
	date, err := utils.ParseDate(req.AttendanceDate)
	if err != nil {
		return nil, errors.Field("attendance_date", "The attendance date is not a valid date.")
	}
	clock, err := utils.ParseClock(req.AttendanceTime)
	if err != nil {
		return nil, errors.Field("attendance_time", "The attendance time does not match the format H:i:s.")
	}
	claimed := model.AttendanceStatus(req.Status)
	if !claimed.Valid() {
		return nil, errors.Field("status", "The selected status is invalid.")
	}

	cadet, err := s.cadets.Get(ctx, req.CadetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Field("cadet_id", "The selected cadet id is invalid.")
		}
		return nil, err
	}

	day := datatypes.Date(date)
	exists, err := s.records.Exists(ctx, req.CadetID, day)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RecordDuplicate(ctx)
		return nil, errors.AttendanceDuplicate
	}

	at := utils.Combine(date, clock, s.loc)
	cutoff := utils.Combine(date, s.cutoff, s.loc)
	status := DeriveStatus(claimed, at, cutoff)

	rec := &model.AttendanceRecord{
		CadetID:        req.CadetID,
		Status:         status,
		Timestamp:      at,
		AttendanceDate: day,
		AttendanceTime: datatypes.Time(clock),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		if repository.IsDuplicate(err) {
			metrics.RecordDuplicate(ctx)
			return nil, errors.AttendanceDuplicate
		}
		return nil, err
	}
	rec.Cadet = cadet

	if err := cache.InvalidateDailyStats(ctx, req.AttendanceDate); err != nil {
		logger.Logger.Warn("Failed to invalidate stats cache",
			zap.String("date", req.AttendanceDate),
			zap.Error(err),
		)
	}

	overridden := status != claimed
	metrics.RecordAttendance(ctx, string(status), overridden)
	logger.Logger.Info("Attendance recorded",
		zap.String("cadet_id", req.CadetID),
		zap.String("date", req.AttendanceDate),
		zap.String("time", utils.FormatClock(clock)),
		zap.String("claimed", string(claimed)),
		zap.String("status", string(status)),
	)

	return &dto.StoreAttendanceResponse{
		Record:        recordData(rec),
		ClaimedStatus: string(claimed),
		Overridden:    overridden,
	}, nil
}

// List 某日的打卡记录，按打卡时间升序，附当日统计
func (s *AttendanceService) List(ctx context.Context, q dto.AttendanceQuery) (*dto.AttendanceListResponse, error) {
	date := s.Today()
	if q.Date != "" {
		d, err := utils.ParseDate(q.Date)
		if err != nil {
			return nil, errors.Field("date", "The date is not a valid date.")
		}
		date = d
	}
	q.Normalize(recordsPerPage)

	records, total, err := s.records.List(ctx, repository.RecordFilter{
		Date:    datatypes.Date(date),
		Status:  model.AttendanceStatus(q.Status),
		Search:  q.Search,
		OrderBy: "attendance_time",
		Offset:  q.Offset(),
		Limit:   q.PerPage,
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.report.DailyStats(ctx, date)
	if err != nil {
		return nil, err
	}

	return &dto.AttendanceListResponse{
		Date:       date.Format(utils.DateLayout),
		Records:    recordsData(records),
		Stats:      stats,
		Pagination: dto.NewPagination(q.Page, q.PerPage, total),
	}, nil
}

// TodayRecords 今天的全部记录
func (s *AttendanceService) TodayRecords(ctx context.Context) (*dto.AttendanceListResponse, error) {
	date := s.Today()

	records, total, err := s.records.List(ctx, repository.RecordFilter{
		Date:    datatypes.Date(date),
		OrderBy: "attendance_time",
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.report.DailyStats(ctx, date)
	if err != nil {
		return nil, err
	}

	perPage := int(total)
	if perPage == 0 {
		perPage = recordsPerPage
	}
	return &dto.AttendanceListResponse{
		Date:       date.Format(utils.DateLayout),
		Records:    recordsData(records),
		Stats:      stats,
		Pagination: dto.NewPagination(1, perPage, total),
	}, nil
}

// TodayStats 今天的统计
func (s *AttendanceService) TodayStats(ctx context.Context) (dto.DailyStats, error) {
	return s.report.DailyStats(ctx, s.Today())
}

// Recent 最近的打卡，limit <= 0 时取 5 条
func (s *AttendanceService) Recent(ctx context.Context, limit int) ([]dto.AttendanceRecordData, error) {
	if limit <= 0 {
		limit = recentLimit
	}
	records, err := s.records.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return recordsData(records), nil
}

// ExportCSV 某日打卡明细，date 为空时取今天
func (s *AttendanceService) ExportCSV(ctx context.Context, dateStr string) (body []byte, filename string, err error) {
	date := s.Today()
	if dateStr != "" {
		if date, err = utils.ParseDate(dateStr); err != nil {
			return nil, "", errors.Field("date", "The date is not a valid date.")
		}
	}

	records, _, err := s.records.List(ctx, repository.RecordFilter{
		Date:    datatypes.Date(date),
		OrderBy: "attendance_time",
	})
	if err != nil {
		return nil, "", err
	}

	body, err = WriteAttendanceCSV(recordsData(records))
	if err != nil {
		return nil, "", err
	}

	metrics.RecordExport(ctx, "attendance", "csv")
	return body, "attendance-" + date.Format(utils.DateLayout) + ".csv", nil
}

func recordsData(records []model.AttendanceRecord) []dto.AttendanceRecordData {
	out := make([]dto.AttendanceRecordData, 0, len(records))
	for i := range records {
		out = append(out, recordData(&records[i]))
	}
	return out
}

func recordData(rec *model.AttendanceRecord) dto.AttendanceRecordData {
	out := dto.AttendanceRecordData{
		ID:             rec.ID,
		CadetID:        rec.CadetID,
		Status:         string(rec.Status),
		Timestamp:      rec.Timestamp,
		AttendanceDate: time.Time(rec.AttendanceDate).Format(utils.DateLayout),
		AttendanceTime: rec.AttendanceTime.String(),
	}
	if rec.Cadet != nil {
		out.Name = rec.Cadet.Name
		out.Designation = rec.Cadet.Designation
		out.CourseYear = rec.Cadet.CourseYear
		out.Sex = string(rec.Cadet.Sex)
	}
	return out
}
