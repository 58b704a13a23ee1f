package saga

import (
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mycelium/internal/service/order/domain"
	"mycelium/internal/service/order/port"
)

// PaymentHandler 向支付网关发起支付并保存跳转地址
type PaymentHandler struct {
	NextHandler
	repo domain.OrderRepository
}

func NewPaymentHandler(repo domain.OrderRepository) *PaymentHandler {
	return &PaymentHandler{repo: repo}
}

func (h *PaymentHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.InitiatePayment")
	defer span.End()

	order := orderCtx.Order
	span.SetAttributes(attribute.Int64("payment.amount", order.TotalCLP))

	session, err := orderCtx.Payment.CreatePayment(ctx, port.PaymentRequest{
		OrderID:   order.ID,
		AmountCLP: order.TotalCLP,
		Currency:  "CLP",
		Customer:  order.Customer,
		Shipping:  order.Shipping,
		ReturnURL: returnURLFor(orderCtx.ReturnURL, order.ID),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment initiation failed")
		return fmt.Errorf("payment initiation: %w", err)
	}
	if session == nil || session.RedirectURL == "" {
		span.SetStatus(codes.Error, "payment gateway returned no redirect")
		return fmt.Errorf("payment initiation: gateway returned no redirect url")
	}

	order.AttachPayment(session.RedirectURL, session.Reference)
	if err := h.repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save payment url: %w", err)
	}
	return h.executeNext(orderCtx)
}

func returnURLFor(base, orderID string) string {
	if base == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("order_id", orderID)
	u.RawQuery = q.Encode()
	return u.String()
}
