package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"CadetTrack/internal/model"
)

type CadetRepository struct {
	db *gorm.DB
}

func NewCadetRepository(db *gorm.DB) *CadetRepository {
	return &CadetRepository{db: db}
}

// Exists 写前检查，强制走主库
func (r *CadetRepository) Exists(ctx context.Context, cadetID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		Model(&model.Cadet{}).
		Where("cadet_id = ?", cadetID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check cadet: %w", err)
	}
	return n > 0, nil
}

// Get 返回 gorm.ErrRecordNotFound 表示不存在
func (r *CadetRepository) Get(ctx context.Context, cadetID string) (*model.Cadet, error) {
	var cadet model.Cadet
	err := r.db.WithContext(ctx).Where("cadet_id = ?", cadetID).First(&cadet).Error
	if err != nil {
		return nil, err
	}
	return &cadet, nil
}

func (r *CadetRepository) Create(ctx context.Context, cadet *model.Cadet) error {
	return r.db.WithContext(ctx).Create(cadet).Error
}

func (r *CadetRepository) Save(ctx context.Context, cadet *model.Cadet) error {
	return r.db.WithContext(ctx).Save(cadet).Error
}

// Delete 同一事务内先删打卡记录再删学员，返回被删记录涉及的日期
func (r *CadetRepository) Delete(ctx context.Context, cadetID string) ([]datatypes.Date, error) {
	var dates []datatypes.Date
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.AttendanceRecord{}).
			Where("cadet_id = ?", cadetID).
			Distinct().
			Pluck("attendance_date", &dates).Error; err != nil {
			return fmt.Errorf("failed to list attendance dates: %w", err)
		}
		if err := tx.Where("cadet_id = ?", cadetID).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete attendance records: %w", err)
		}
		res := tx.Where("cadet_id = ?", cadetID).Delete(&model.Cadet{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete cadet: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dates, nil
}

// List 按 cadet_id 升序分页
func (r *CadetRepository) List(ctx context.Context, search string, offset, limit int) ([]model.Cadet, int64, error) {
	q := searchCadets(r.db.WithContext(ctx).Model(&model.Cadet{}), search).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cadets: %w", err)
	}

	var cadets []model.Cadet
	if err := q.Order("cadets.cadet_id ASC").Offset(offset).Limit(limit).Find(&cadets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cadets: %w", err)
	}
	return cadets, total, nil
}

// Count 学员总数
func (r *CadetRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Cadet{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count cadets: %w", err)
	}
	return n, nil
}

// CountBySex 按性别分组计数
func (r *CadetRepository) CountBySex(ctx context.Context) (map[model.Sex]int64, error) {
	var rows []struct {
		Sex   model.Sex
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.Cadet{}).
		Select("sex, COUNT(*) AS total").
		Group("sex").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count cadets by sex: %w", err)
	}

	out := make(map[model.Sex]int64, len(rows))
	for _, row := range rows {
		out[row.Sex] = row.Total
	}
	return out, nil
}

// Absent 当日没有 present/late 记录的学员，按 cadet_id 升序
func (r *CadetRepository) Absent(ctx context.Context, date datatypes.Date, search string, offset, limit int) ([]model.Cadet, int64, error) {
	recorded := r.db.Model(&model.AttendanceRecord{}).
		Select("cadet_id").
		Where("attendance_date = ? AND status IN ?", date, []model.AttendanceStatus{model.StatusPresent, model.StatusLate})

	q := searchCadets(r.db.WithContext(ctx).Model(&model.Cadet{}), search).
		Where("cadets.cadet_id NOT IN (?)", recorded).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count absent cadets: %w", err)
	}

	var cadets []model.Cadet
	if err := q.Order("cadets.cadet_id ASC").Offset(offset).Limit(limit).Find(&cadets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list absent cadets: %w", err)
	}
	return cadets, total, nil
}

// IsNotFound 统一判断记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate 统一判断唯一约束冲突
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
