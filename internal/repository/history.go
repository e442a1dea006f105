package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"CadetTrack/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 按 attendance_date 覆盖计数
func (r *HistoryRepository) Upsert(ctx context.Context, h *model.AttendanceHistory) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attendance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_cadets", "present_count", "late_count", "absent_count", "updated_at",
		}),
	}).Create(h).Error
	if err != nil {
		return fmt.Errorf("failed to upsert history: %w", err)
	}
	return nil
}

// Between 区间内的快照，desc 为 true 时按日期降序
func (r *HistoryRepository) Between(ctx context.Context, start, end datatypes.Date, desc bool) ([]model.AttendanceHistory, error) {
	order := "attendance_date ASC"
	if desc {
		order = "attendance_date DESC"
	}

	var rows []model.AttendanceHistory
	err := r.db.WithContext(ctx).
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Order(order).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return rows, nil
}

// Get 返回 gorm.ErrRecordNotFound 表示该日没有快照
func (r *HistoryRepository) Get(ctx context.Context, date datatypes.Date) (*model.AttendanceHistory, error) {
	var h model.AttendanceHistory
	if err := r.db.WithContext(ctx).Where("attendance_date = ?", date).First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}
