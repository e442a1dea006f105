package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"CadetTrack/internal/model"
	"CadetTrack/pkg/logger"
	"CadetTrack/pkg/snowflake"
	"CadetTrack/storage/mq"
	"CadetTrack/utils"
)

// PublishHistoryArchive 投递某日的归档任务
func PublishHistoryArchive(ctx context.Context, date time.Time) (string, error) {
	id, err := snowflake.NextID()
	if err != nil {
		logger.Logger.Error("Failed to generate message ID",
			zap.Time("date", date),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to generate message ID: %w", err)
	}

	msg := model.HistoryArchiveMessage{
		MessageID:      fmt.Sprintf("history_archive_%d", id),
		AttendanceDate: date.Format(utils.DateLayout),
		RequestedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	if err := mq.PublishMessage(ctx, mq.ArchiveExchange, mq.ArchiveRoutingKey, msg.MessageID, msg); err != nil {
		logger.Logger.Error("Failed to publish history archive message",
			zap.String("attendance_date", msg.AttendanceDate),
			zap.Error(err),
		)
		return "", err
	}

	logger.Logger.Info("Published history archive message",
		zap.String("message_id", msg.MessageID),
		zap.String("attendance_date", msg.AttendanceDate),
	)
	return msg.MessageID, nil
}
