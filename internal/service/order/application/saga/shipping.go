package saga

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mycelium/internal/service/order/domain"
)

// ShippingQuoteHandler 计算运费；目的地无法报价时中断结账
type ShippingQuoteHandler struct {
	NextHandler
}

func (h *ShippingQuoteHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ShippingQuote")
	defer span.End()

	order := orderCtx.Order
	quote, err := orderCtx.ShippingService.Quote(ctx, order.Shipping.Region, order.Shipping.WeightGrams)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "shipping quote failed")
		return fmt.Errorf("shipping quote: %w", err)
	}
	span.SetAttributes(
		attribute.String("shipping.zone", string(quote.Zone)),
		attribute.String("shipping.size", string(quote.SizeClass)),
		attribute.Int64("shipping.cost", quote.Cost),
	)
	if !quote.Determined {
		span.SetStatus(codes.Error, "shipping undetermined")
		return fmt.Errorf("%w: %q", domain.ErrShippingUndetermined, order.Shipping.Region)
	}

	order.ApplyShipping(string(quote.Zone), string(quote.SizeClass), quote.Cost)
	return h.executeNext(orderCtx)
}
