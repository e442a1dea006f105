package mq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"CadetTrack/pkg/logger"
	mqotel "CadetTrack/pkg/mq"
)

// Message 交给业务 handler 的消息
type Message struct {
	ID   string
	Body []byte
}

type MessageHandler func(ctx context.Context, msg Message) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费直到 ctx 取消或 channel 关闭
// 处理失败的消息 nack 并重新入队
func Consume(ctx context.Context, opts ConsumeOptions) error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(opts.ConsumerTag, false)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel for %s closed", opts.Queue)
			}
			handle(ctx, opts, d)
		}
	}
}

func handle(ctx context.Context, opts ConsumeOptions, d amqp.Delivery) {
	start := time.Now()
	msgCtx, span := mqotel.StartConsumeSpan(ctx, opts.Queue, d)

	err := opts.Handler(msgCtx, Message{ID: d.MessageId, Body: d.Body})
	mqotel.EndSpan(msgCtx, span, "process", opts.Queue, start, err)

	if err != nil {
		logger.Logger.Error("Failed to process message",
			zap.String("queue", opts.Queue),
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		if nackErr := d.Nack(false, true); nackErr != nil {
			logger.Logger.Error("Failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := d.Ack(false); ackErr != nil {
		logger.Logger.Error("Failed to ack message", zap.Error(ackErr))
	}
}
