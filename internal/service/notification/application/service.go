// internal/service/notification/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/service/notification/domain"
	orderdomain "mycelium/internal/service/order/domain"
)

// Sender 是实际投递通知的出站端口
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// LogSender 只把通知写进结构化日志，没有接入真实邮件服务时使用
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n domain.Notification) error {
	logger.Ctx(ctx).Info().
		Str("order_id", n.OrderID).
		Str("to", n.To).
		Str("subject", n.Subject).
		Str("body", n.Body).
		Msg("customer notification sent")
	return nil
}

type NotificationService struct {
	sender Sender
	tracer trace.Tracer
}

func NewNotificationService(sender Sender, tracer trace.Tracer) *NotificationService {
	return &NotificationService{sender: sender, tracer: tracer}
}

// HandleOrderEvent 把订单事件转换为客户通知并投递
func (s *NotificationService) HandleOrderEvent(ctx context.Context, event orderdomain.OrderEvent) error {
	ctx, span := s.tracer.Start(ctx, "notification.HandleOrderEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", event.OrderID),
		attribute.String("event.type", string(event.Type)),
	)

	n, ok, err := domain.Compose(event)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !ok {
		span.AddEvent("event ignored")
		return nil
	}
	if err := s.sender.Send(ctx, n); err != nil {
		span.RecordError(err)
		return err
	}
	span.AddEvent("Notification sent successfully")
	return nil
}
