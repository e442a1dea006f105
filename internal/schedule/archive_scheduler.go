package schedule

// 归档调度器：每天 ARCHIVE_AT 投递当天的归档任务，由 worker 生成历史快照

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"CadetTrack/config"
	"CadetTrack/internal/cache"
	"CadetTrack/internal/queue"
	"CadetTrack/pkg/logger"
	"CadetTrack/utils"
)

const archiveLockTTL = 23 * time.Hour

var (
	schedulerOnce sync.Once
	schedulerInst *ArchiveScheduler
)

// Publisher 投递归档消息
type Publisher func(ctx context.Context, date time.Time) (string, error)

type ArchiveScheduler struct {
	logger  *zap.Logger
	publish Publisher
	loc     *time.Location
	lockTTL time.Duration

	jobMu      sync.Mutex
	jobRunning bool
	lastRun    time.Time
}

func GetScheduler() *ArchiveScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = NewArchiveScheduler(queue.PublishHistoryArchive, config.Cfg.Location())
	})
	return schedulerInst
}

func NewArchiveScheduler(publish Publisher, loc *time.Location) *ArchiveScheduler {
	return &ArchiveScheduler{
		logger:  logger.Named("archive"),
		publish: publish,
		loc:     loc,
		lockTTL: archiveLockTTL,
	}
}

// SetLockTTL 开发环境每分钟跑一次，锁要短于间隔
func (s *ArchiveScheduler) SetLockTTL(ttl time.Duration) {
	s.lockTTL = ttl
}

// ArchiveDay 投递 now 所在日期的归档任务，多实例之间用 Redis 锁保证只投递一次
func (s *ArchiveScheduler) ArchiveDay(ctx context.Context, now time.Time) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Archive job already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.lastRun = now
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	date := utils.DateOf(now, s.loc)
	day := date.Format(utils.DateLayout)

	locked, err := cache.TryLock(ctx, "archive:"+day, s.lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire archive lock: %w", err)
	}
	if !locked {
		s.logger.Info("Archive already scheduled by another instance", zap.String("date", day))
		return nil
	}

	messageID, err := s.publish(ctx, date)
	if err != nil {
		// 释放锁以便下次重试
		if unlockErr := cache.Unlock(ctx, "archive:"+day); unlockErr != nil {
			s.logger.Warn("Failed to release archive lock", zap.String("date", day), zap.Error(unlockErr))
		}
		return fmt.Errorf("failed to publish archive for %s: %w", day, err)
	}

	s.logger.Info("Archive job scheduled",
		zap.String("date", day),
		zap.String("message_id", messageID),
	)
	return nil
}

// LastRun 最近一次触发时间
func (s *ArchiveScheduler) LastRun() time.Time {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.lastRun
}

// NextRun 下一个 at（HH:MM）时刻，已过则取明天
func NextRun(now time.Time, at string, loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid archive time %q: %w", at, err)
	}

	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}
