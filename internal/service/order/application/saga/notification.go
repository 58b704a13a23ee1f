package saga

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/service/order/domain"
)

// NotificationHandler 是 Saga 流程的最后一步，发布 OrderPlaced 事件
type NotificationHandler struct {
	NextHandler
}

func (h *NotificationHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Notification")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.event", string(domain.EventOrderPlaced)),
	)

	// 事件发布失败不影响已经成功的结账，只记录
	event := domain.NewOrderEvent(domain.EventOrderPlaced, uuid.NewString(), orderCtx.Order)
	if err := orderCtx.Publisher.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", orderCtx.Order.ID).Msg("failed to publish OrderPlaced")
		span.RecordError(err)
	}

	return h.executeNext(orderCtx)
}
