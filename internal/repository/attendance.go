package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"CadetTrack/internal/model"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// RecordFilter 单日记录查询条件，Status 为空时不过滤
type RecordFilter struct {
	Date   datatypes.Date
	Status model.AttendanceStatus
	Search string
	// OrderBy 取值 attendance_time 或 timestamp
	OrderBy string
	Offset  int
	Limit   int
}

// DateStatus 区间统计用的最小投影
type DateStatus struct {
	AttendanceDate datatypes.Date
	Status         model.AttendanceStatus
}

func (r *AttendanceRepository) Create(ctx context.Context, rec *model.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Exists 写前去重检查，强制走主库
func (r *AttendanceRepository) Exists(ctx context.Context, cadetID string, date datatypes.Date) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Model(&model.AttendanceRecord{}).
		Where("cadet_id = ? AND attendance_date = ?", cadetID, date).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}
	return n > 0, nil
}

// CountRecorded 当日 present 与 late 的数量
func (r *AttendanceRepository) CountRecorded(ctx context.Context, date datatypes.Date) (present, late int64, err error) {
	var rows []struct {
		Status model.AttendanceStatus
		Total  int64
	}
	err = r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Select("status, COUNT(*) AS total").
		Where("attendance_date = ? AND status IN ?", date, []model.AttendanceStatus{model.StatusPresent, model.StatusLate}).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	for _, row := range rows {
		switch row.Status {
		case model.StatusPresent:
			present = row.Total
		case model.StatusLate:
			late = row.Total
		}
	}
	return present, late, nil
}

// RecordedBetween 区间内所有 present/late 记录的 (日期, 状态)
func (r *AttendanceRepository) RecordedBetween(ctx context.Context, start, end datatypes.Date) ([]DateStatus, error) {
	var rows []DateStatus
	err := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Select("attendance_date, status").
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Where("status IN ?", []model.AttendanceStatus{model.StatusPresent, model.StatusLate}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance range: %w", err)
	}
	return rows, nil
}

// List 单日记录，带学员信息，Limit <= 0 时不分页
func (r *AttendanceRepository) List(ctx context.Context, f RecordFilter) ([]model.AttendanceRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
		Joins("JOIN cadets ON cadets.cadet_id = attendance_records.cadet_id").
		Where("attendance_records.attendance_date = ?", f.Date)
	if f.Status != "" {
		q = q.Where("attendance_records.status = ?", f.Status)
	}
	q = searchCadets(q, f.Search).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	order := "attendance_records.attendance_time ASC"
	if f.OrderBy == "timestamp" {
		order = "attendance_records.timestamp ASC"
	}

	list := q.Select("attendance_records.*").Preload("Cadet").Order(order).Order("attendance_records.id ASC")
	if f.Limit > 0 {
		list = list.Offset(f.Offset).Limit(f.Limit)
	}

	var records []model.AttendanceRecord
	if err := list.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, total, nil
}

// ForCadets 指定学员在某日的记录，按 cadet_id 索引
func (r *AttendanceRepository) ForCadets(ctx context.Context, date datatypes.Date, cadetIDs []string) (map[string]model.AttendanceRecord, error) {
	out := make(map[string]model.AttendanceRecord, len(cadetIDs))
	if len(cadetIDs) == 0 {
		return out, nil
	}

	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("attendance_date = ? AND cadet_id IN ?", date, cadetIDs).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance for cadets: %w", err)
	}

	for _, rec := range records {
		out[rec.CadetID] = rec
	}
	return out, nil
}

// Recent 最近的打卡记录
func (r *AttendanceRepository) Recent(ctx context.Context, limit int) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("Cadet").
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attendance: %w", err)
	}
	return records, nil
}
