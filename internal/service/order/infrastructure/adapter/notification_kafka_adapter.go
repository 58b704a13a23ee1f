package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"mycelium/internal/pkg/mq"
	"mycelium/internal/service/order/domain"
)

// EventKafkaAdapter 实现了 port.EventPublisher 接口，按订单 ID 分区保证同一订单的事件有序
type EventKafkaAdapter struct {
	writer mq.MessageWriter
}

func NewEventKafkaAdapter(writer mq.MessageWriter) *EventKafkaAdapter {
	return &EventKafkaAdapter{writer: writer}
}

func (a *EventKafkaAdapter) Publish(ctx context.Context, event domain.OrderEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	// mq.ProduceMessage 会自动注入追踪上下文
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderID), eventBytes,
		kafka.Header{Key: "event-type", Value: []byte(event.Type)})
}

// NoopEventPublisher 在关闭订单事件开关时使用
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	return nil
}
