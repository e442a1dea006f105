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
	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/repository"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/logger"
	"CadetTrack/pkg/metrics"
	"CadetTrack/storage/database"
	"CadetTrack/utils"
)

var (
	historyService *HistoryService
	historyOnce    sync.Once
)

// History 每日快照归档
func History() *HistoryService {
	historyOnce.Do(func() {
		historyService = NewHistoryService(database.DB(), Report())
	})
	return historyService
}

type HistoryService struct {
	history *repository.HistoryRepository
	report  *ReportService
	now     func() time.Time
	loc     *time.Location
}

func NewHistoryService(db *gorm.DB, report *ReportService) *HistoryService {
	return &HistoryService{
		history: repository.NewHistoryRepository(db),
		report:  report,
		now:     time.Now,
		loc:     config.Cfg.Location(),
	}
}

// Save 覆盖写入某日快照，计数原样保存
func (s *HistoryService) Save(ctx context.Context, req dto.SaveHistoryRequest) (*dto.HistoryData, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, errors.Field("date", "The date is not a valid date.")
	}

	h := &model.AttendanceHistory{
		AttendanceDate: datatypes.Date(date),
		TotalCadets:    derefInt(req.TotalCadets),
		PresentCount:   derefInt(req.Present),
		LateCount:      derefInt(req.Late),
		AbsentCount:    derefInt(req.Absent),
	}
	if err := s.history.Upsert(ctx, h); err != nil {
		return nil, err
	}

	data := historyData(h)
	return &data, nil
}

// Archive 用实时统计生成某日快照，source 标记触发方
func (s *HistoryService) Archive(ctx context.Context, date time.Time, source string) (*dto.HistoryData, error) {
	start := time.Now()

	stats, err := s.report.computeDaily(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily stats: %w", err)
	}

	h := &model.AttendanceHistory{
		AttendanceDate: datatypes.Date(date),
		TotalCadets:    stats.TotalCadets,
		PresentCount:   stats.Present,
		LateCount:      stats.Late,
		AbsentCount:    stats.Absent,
	}
	if err := s.history.Upsert(ctx, h); err != nil {
		return nil, err
	}

	metrics.RecordArchive(ctx, source, time.Since(start).Seconds())
	logger.Logger.Info("Attendance history archived",
		zap.String("date", stats.Date),
		zap.String("source", source),
		zap.Int("total", stats.TotalCadets),
		zap.Int("present", stats.Present),
		zap.Int("late", stats.Late),
		zap.Int("absent", stats.Absent),
	)

	data := historyData(h)
	return &data, nil
}

// Index 某月的快照，列表按日期降序，graph_data 升序
func (s *HistoryService) Index(ctx context.Context, q dto.HistoryQuery) (*dto.HistoryIndexResponse, error) {
	first, last := s.monthBounds(q.Month, q.Year)

	rows, err := s.history.Between(ctx, datatypes.Date(first), datatypes.Date(last), true)
	if err != nil {
		return nil, err
	}

	resp := &dto.HistoryIndexResponse{
		Month:   first.Format("January 2006"),
		History: make([]dto.HistoryData, 0, len(rows)),
		GraphData: dto.GraphData{
			Dates:   make([]string, 0, len(rows)),
			Present: make([]int, 0, len(rows)),
			Late:    make([]int, 0, len(rows)),
			Absent:  make([]int, 0, len(rows)),
		},
	}

	for i := range rows {
		resp.History = append(resp.History, historyData(&rows[i]))
	}
	for i := len(rows) - 1; i >= 0; i-- {
		resp.GraphData.Dates = append(resp.GraphData.Dates, time.Time(rows[i].AttendanceDate).Format("Jan 02"))
		resp.GraphData.Present = append(resp.GraphData.Present, rows[i].PresentCount)
		resp.GraphData.Late = append(resp.GraphData.Late, rows[i].LateCount)
		resp.GraphData.Absent = append(resp.GraphData.Absent, rows[i].AbsentCount)
	}

	return resp, nil
}

// DateDetails 某个归档日期的学员明细
func (s *HistoryService) DateDetails(ctx context.Context, q dto.StudentsQuery) (*dto.StudentsResponse, error) {
	return s.report.StudentsByStatus(ctx, q)
}

// Download date 非空时导出单日，否则导出 month/year 所在月
func (s *HistoryService) Download(ctx context.Context, q dto.HistoryDownloadQuery) (body []byte, filename string, err error) {
	var rows []model.AttendanceHistory

	if q.Date != "" {
		date, perr := utils.ParseDate(q.Date)
		if perr != nil {
			return nil, "", errors.Field("date", "The date is not a valid date.")
		}
		h, gerr := s.history.Get(ctx, datatypes.Date(date))
		if gerr != nil {
			if repository.IsNotFound(gerr) {
				return nil, "", errors.HistoryNotFound
			}
			return nil, "", gerr
		}
		rows = []model.AttendanceHistory{*h}
		filename = "history-" + q.Date + ".csv"
	} else {
		first, last := s.monthBounds(q.Month, q.Year)
		if rows, err = s.history.Between(ctx, datatypes.Date(first), datatypes.Date(last), false); err != nil {
			return nil, "", err
		}
		filename = "history-" + first.Format("2006-01") + ".csv"
	}

	out := make([]SummaryRow, 0, len(rows))
	for i := range rows {
		d := historyData(&rows[i])
		out = append(out, SummaryRow{
			Date:        d.AttendanceDate,
			TotalCadets: d.TotalCadets,
			Present:     d.PresentCount,
			Late:        d.LateCount,
			Absent:      d.AbsentCount,
			Rate:        d.AttendanceRate,
		})
	}

	if body, err = WriteSummaryCSV(out); err != nil {
		return nil, "", err
	}

	metrics.RecordExport(ctx, "history", "csv")
	return body, filename, nil
}

// monthBounds 缺省月份与年份取配置时区下的当前月
func (s *HistoryService) monthBounds(monthParam, yearParam *int) (first, last time.Time) {
	now := s.now().In(s.loc)
	month, year := int(now.Month()), now.Year()
	if monthParam != nil {
		month = *monthParam
	}
	if yearParam != nil {
		year = *yearParam
	}
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func historyData(h *model.AttendanceHistory) dto.HistoryData {
	date := time.Time(h.AttendanceDate)
	return dto.HistoryData{
		ID:             h.ID,
		AttendanceDate: date.Format(utils.DateLayout),
		DayName:        date.Weekday().String(),
		TotalCadets:    h.TotalCadets,
		PresentCount:   h.PresentCount,
		LateCount:      h.LateCount,
		AbsentCount:    h.AbsentCount,
		AttendanceRate: AttendanceRate(h.PresentCount, h.LateCount, h.TotalCadets),
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
