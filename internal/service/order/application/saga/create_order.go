package saga

import (
	"fmt"

	"mycelium/internal/service/order/domain"
)

// CreateOrderHandler 负责把订单以待支付状态持久化
type CreateOrderHandler struct {
	NextHandler
	repo domain.OrderRepository
}

func NewCreateOrderHandler(repo domain.OrderRepository) *CreateOrderHandler {
	return &CreateOrderHandler{repo: repo}
}

func (h *CreateOrderHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.CreateOrder")
	defer span.End()

	if err := orderCtx.Order.MarkAsPendingPayment(); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, orderCtx.Order); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save pending payment order: %w", err)
	}
	orderCtx.Persisted = true
	span.AddEvent("Pending payment order saved to DB.")

	return h.executeNext(orderCtx)
}
