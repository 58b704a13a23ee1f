// internal/service/notification/interfaces/order_events_consumer.go
package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/mq"
	"mycelium/internal/pkg/tracing"
	"mycelium/internal/service/notification/application"
	orderdomain "mycelium/internal/service/order/domain"
)

// MessageReader 是 *kafka.Reader 的子集，offset 由消费者手动提交
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OrderEventsConsumer 是一个驱动适配器，它监听 order-events 并驱动通知服务
type OrderEventsConsumer struct {
	reader MessageReader
	svc    *application.NotificationService
	tracer trace.Tracer
}

func NewOrderEventsConsumer(reader MessageReader, svc *application.NotificationService, tracer trace.Tracer) *OrderEventsConsumer {
	return &OrderEventsConsumer{reader: reader, svc: svc, tracer: tracer}
}

// Run 一直消费直到 ctx 被取消。处理失败的消息记录日志后照常提交，不阻塞后续消息
func (c *OrderEventsConsumer) Run(ctx context.Context) {
	logger.Ctx(ctx).Info().Msg("order events consumer started")
	for {
		// 使用 FetchMessage 而不是 ReadMessage，以便更好地控制提交
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Ctx(ctx).Info().Msg("order events consumer shutting down")
				return
			}
			logger.Ctx(ctx).Error().Err(err).Msg("could not read message, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		c.processMessage(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("failed to commit message")
		}
	}
}

func (c *OrderEventsConsumer) processMessage(parent context.Context, msg kafka.Message) {
	// 从消息头中提取追踪上下文，把这次处理挂到上游的链路上
	ctx := mq.ExtractTraceContext(parent, msg.Headers)
	ctx, span := c.tracer.Start(ctx, "notification-service.ProcessOrderEvent",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
			attribute.String("messaging.kafka.message.key", string(msg.Key)),
		),
	)
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	var event orderdomain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int64("offset", msg.Offset).Msg("failed to unmarshal order event, skipping")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	if err := c.svc.HandleOrderEvent(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to notify customer")
		span.SetStatus(codes.Error, err.Error())
	}
}
