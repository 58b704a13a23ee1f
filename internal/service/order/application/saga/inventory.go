package saga

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/service/order/domain"
)

// InventoryHandler 负责库存预占步骤，每个商品在分布式锁内扣减
type InventoryHandler struct {
	NextHandler
}

func (h *InventoryHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.InventoryReserve")
	defer span.End()

	// 按商品 ID 顺序加锁，避免两个结账互相等待
	lines := append([]domain.Line(nil), orderCtx.Order.Lines...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	for _, line := range lines {
		if err := h.reserve(ctx, orderCtx, line); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Inventory reservation failed")
			return err
		}

		orderCtx.AddCompensation(func(compCtx context.Context) {
			compCtx, compSpan := orderCtx.Tracer.Start(compCtx, "saga.compensation.ReleaseStock")
			defer compSpan.End()
			compSpan.SetAttributes(attribute.Int64("product.id", line.ProductID), attribute.Int("qty", line.Quantity))

			// 补偿失败需要人工介入
			if err := orderCtx.InventoryService.ReleaseStock(compCtx, line.ProductID, line.Quantity); err != nil {
				compSpan.RecordError(err)
				logger.Ctx(compCtx).Error().Err(err).Str("order_id", orderCtx.Order.ID).
					Int64("product_id", line.ProductID).Msg("CRITICAL: failed to release stock")
			}
		})
	}

	span.AddEvent("All items reserved successfully")
	return h.executeNext(orderCtx)
}

func (h *InventoryHandler) reserve(ctx context.Context, orderCtx *OrderContext, line domain.Line) error {
	release, err := orderCtx.Locker.Acquire(ctx, fmt.Sprintf("product-%d", line.ProductID))
	if err != nil {
		return fmt.Errorf("lock product %d: %w", line.ProductID, err)
	}
	defer func() {
		if err := release(); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int64("product_id", line.ProductID).Msg("failed to release stock lock")
		}
	}()

	if err := orderCtx.InventoryService.ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
		return fmt.Errorf("reserve product %d: %w", line.ProductID, err)
	}
	return nil
}
