package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"CadetTrack/config"
	"CadetTrack/internal/cache"
	"CadetTrack/internal/model"
	"CadetTrack/internal/model/dto"
	"CadetTrack/internal/repository"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/logger"
	"CadetTrack/storage/database"
	"CadetTrack/utils"
)

const cadetsPerPage = 10

var (
	cadetService *CadetService
	cadetOnce    sync.Once
)

// Cadet 学员名册
func Cadet() *CadetService {
	cadetOnce.Do(func() {
		cadetService = NewCadetService(database.DB())
	})
	return cadetService
}

type CadetService struct {
	cadets     *repository.CadetRepository
	now        func() time.Time
	loc        *time.Location
	invalidate func(ctx context.Context, date string) error
}

func NewCadetService(db *gorm.DB) *CadetService {
	return &CadetService{
		cadets:     repository.NewCadetRepository(db),
		now:        time.Now,
		loc:        config.Cfg.Location(),
		invalidate: cache.InvalidateDailyStats,
	}
}

// List 按 cadet_id 升序分页
func (s *CadetService) List(ctx context.Context, q dto.PageQuery) (*dto.CadetListResponse, error) {
	q.Normalize(cadetsPerPage)

	cadets, total, err := s.cadets.List(ctx, q.Search, q.Offset(), q.PerPage)
	if err != nil {
		return nil, err
	}
	if cadets == nil {
		cadets = []model.Cadet{}
	}

	return &dto.CadetListResponse{
		Cadets:     cadets,
		Pagination: dto.NewPagination(q.Page, q.PerPage, total),
	}, nil
}

// Count 总数与男女人数
func (s *CadetService) Count(ctx context.Context) (*dto.CadetCount, error) {
	bySex, err := s.cadets.CountBySex(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.CadetCount{
		Male:   bySex[model.SexMale],
		Female: bySex[model.SexFemale],
	}
	for _, n := range bySex {
		out.Total += n
	}
	return out, nil
}

func (s *CadetService) Get(ctx context.Context, cadetID string) (*model.Cadet, error) {
	cadet, err := s.cadets.Get(ctx, cadetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.CadetNotFound
		}
		return nil, err
	}
	return cadet, nil
}

// Create 新建学员，cadet_id 唯一
func (s *CadetService) Create(ctx context.Context, req dto.CreateCadetRequest) (*model.Cadet, error) {
	exists, err := s.cadets.Exists(ctx, req.CadetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.CadetIDTaken
	}

	cadet := &model.Cadet{
		CadetID:     req.CadetID,
		Name:        req.Name,
		Designation: req.Designation,
		CourseYear:  req.CourseYear,
		Sex:         model.Sex(req.Sex),
	}
	if err := s.cadets.Create(ctx, cadet); err != nil {
		if repository.IsDuplicate(err) {
			return nil, errors.CadetIDTaken
		}
		return nil, err
	}

	s.invalidateToday(ctx)
	logger.Logger.Info("Cadet created", zap.String("cadet_id", cadet.CadetID))
	return cadet, nil
}

// Update 部分更新，修改 cadet_id 时同样检查唯一性
func (s *CadetService) Update(ctx context.Context, cadetID string, req dto.UpdateCadetRequest) (*model.Cadet, error) {
	cadet, err := s.Get(ctx, cadetID)
	if err != nil {
		return nil, err
	}

	if req.CadetID != nil && *req.CadetID != cadet.CadetID {
		exists, err := s.cadets.Exists(ctx, *req.CadetID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.CadetIDTaken
		}
		cadet.CadetID = *req.CadetID
	}
	if req.Name != nil {
		cadet.Name = *req.Name
	}
	if req.Designation != nil {
		cadet.Designation = *req.Designation
	}
	if req.CourseYear != nil {
		cadet.CourseYear = *req.CourseYear
	}
	if req.Sex != nil {
		cadet.Sex = model.Sex(*req.Sex)
	}

	if err := s.cadets.Save(ctx, cadet); err != nil {
		if repository.IsDuplicate(err) {
			return nil, errors.CadetIDTaken
		}
		return nil, err
	}
	return cadet, nil
}

// Delete 连同打卡记录一起删除
func (s *CadetService) Delete(ctx context.Context, cadetID string) error {
	dates, err := s.cadets.Delete(ctx, cadetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.CadetNotFound
		}
		return err
	}

	s.invalidateToday(ctx)
	for _, d := range dates {
		s.invalidateDate(ctx, time.Time(d).Format(utils.DateLayout))
	}
	logger.Logger.Info("Cadet deleted",
		zap.String("cadet_id", cadetID),
		zap.Int("record_dates", len(dates)),
	)
	return nil
}

// invalidateToday 名册变化会影响当天的 total 与 absent
func (s *CadetService) invalidateToday(ctx context.Context) {
	s.invalidateDate(ctx, utils.DateOf(s.now(), s.loc).Format(utils.DateLayout))
}

func (s *CadetService) invalidateDate(ctx context.Context, date string) {
	if err := s.invalidate(ctx, date); err != nil {
		logger.Logger.Warn("Failed to invalidate stats cache",
			zap.String("date", date),
			zap.Error(err),
		)
	}
}
