package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"CadetTrack/internal/cache"
	"CadetTrack/internal/model"
	"CadetTrack/pkg/logger"
	"CadetTrack/storage/mq"
	"CadetTrack/utils"
)

const processingTTL = 10 * time.Minute

// Archiver 归档实现，由 worker 注入 service.History()
type Archiver interface {
	ArchiveDate(ctx context.Context, date time.Time) error
}

// ArchiverFunc 让普通函数满足 Archiver
type ArchiverFunc func(ctx context.Context, date time.Time) error

func (f ArchiverFunc) ArchiveDate(ctx context.Context, date time.Time) error {
	return f(ctx, date)
}

// StartHistoryArchiveConsumer 阻塞消费归档队列直到 ctx 取消
func StartHistoryArchiveConsumer(ctx context.Context, archiver Archiver, prefetch int) error {
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.ArchiveQueue,
		ConsumerTag:   "history-archive-worker",
		PrefetchCount: prefetch,
		Handler:       HistoryArchiveHandler(archiver),
	})
}

// HistoryArchiveHandler 用 SETNX 去重，处理失败时撤销标记并返回错误让消息重新入队
func HistoryArchiveHandler(archiver Archiver) mq.MessageHandler {
	return func(ctx context.Context, m mq.Message) error {
		var msg model.HistoryArchiveMessage
		if err := json.Unmarshal(m.Body, &msg); err != nil {
			// 格式错误的消息重试也没用，直接丢弃
			logger.Logger.Error("Dropping malformed history archive message",
				zap.String("message_id", m.ID),
				zap.Error(err),
			)
			return nil
		}
		if msg.MessageID == "" {
			msg.MessageID = m.ID
		}

		date, err := utils.ParseDate(msg.AttendanceDate)
		if err != nil {
			logger.Logger.Error("Dropping history archive message with invalid date",
				zap.String("message_id", msg.MessageID),
				zap.String("attendance_date", msg.AttendanceDate),
			)
			return nil
		}

		first, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, processingTTL)
		if err != nil {
			// 检查失败时继续处理，归档是 upsert，重复执行无副作用
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !first {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if err := archiver.ArchiveDate(ctx, date); err != nil {
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to archive %s: %w", msg.AttendanceDate, err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 0); err != nil {
			logger.Logger.Warn("Failed to mark message processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}
		return nil
	}
}
