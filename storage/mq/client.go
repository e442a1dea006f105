package mq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"CadetTrack/config"
)

// 归档链路的拓扑
const (
	ArchiveExchange   = "attendance.direct"
	ArchiveQueue      = "history.archive"
	ArchiveRoutingKey = "history.archive"
)

var (
	conn     *amqp.Connection
	connOnce sync.Once
	connErr  error
)

func Init() error {
	connOnce.Do(func() {
		conn, connErr = amqp.Dial(config.Cfg.GetRabbitMQURL())
		if connErr != nil {
			connErr = fmt.Errorf("failed to dial RabbitMQ: %w", connErr)
			return
		}

		connErr = DeclareTopology()
	})

	return connErr
}

func Connection() *amqp.Connection {
	return conn
}

// DeclareTopology 幂等地声明交换机、队列和绑定
func DeclareTopology() error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ArchiveExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", ArchiveExchange, err)
	}

	if _, err := ch.QueueDeclare(ArchiveQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", ArchiveQueue, err)
	}

	if err := ch.QueueBind(ArchiveQueue, ArchiveRoutingKey, ArchiveExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", ArchiveQueue, err)
	}

	return nil
}

func Close(ctx context.Context) error {
	pubMutex.Lock()
	if publisherCh != nil {
		_ = publisherCh.Close()
		publisherCh = nil
	}
	pubMutex.Unlock()

	if conn == nil || conn.IsClosed() {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
