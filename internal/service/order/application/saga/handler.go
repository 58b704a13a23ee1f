package saga

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/logger"
	"mycelium/internal/service/order/domain"
	"mycelium/internal/service/order/port"
)

// OrderContext 在结账 Saga 流程中传递上下文数据，外部依赖都是端口接口
type OrderContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer

	ShippingService  port.ShippingService
	InventoryService port.InventoryService
	Locker           lock.Locker
	Payment          port.PaymentGateway
	Publisher        port.EventPublisher
	ReturnURL        string

	// Persisted 表示订单已经落库，失败时需要把它标记为 FAILED
	Persisted bool

	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 注册补偿操作，后注册的先执行
func (c *OrderContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

func (c *OrderContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().Str("order_id", c.Order.ID).Int("count", len(c.compensations)).Msg("executing compensation functions")
	for _, comp := range c.compensations {
		comp(ctx)
	}
	c.compensations = nil
}

type Handler interface {
	SetNext(handler Handler) Handler
	Handle(orderCtx *OrderContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(orderCtx *OrderContext) error {
	if h.next != nil {
		return h.next.Handle(orderCtx)
	}
	return nil
}
