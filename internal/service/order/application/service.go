// internal/service/order/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/metrics"
	"mycelium/internal/pkg/validation"
	cartdomain "mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/order/application/saga"
	"mycelium/internal/service/order/domain"
	"mycelium/internal/service/order/port"
)

const maxRecentOrders = 200

// Dependencies 汇总订单应用服务需要的出站端口
type Dependencies struct {
	Repo      domain.OrderRepository
	Carts     port.CartStore
	Shipping  port.ShippingService
	Inventory port.InventoryService
	Locker    lock.Locker
	Payment   port.PaymentGateway
	Publisher port.EventPublisher

	ProcessingTimeout time.Duration
	ReturnURL         string
}

// OrderApplicationService 只关注业务流程编排。
type OrderApplicationService struct {
	deps   Dependencies
	tracer trace.Tracer
}

func NewOrderApplicationService(deps Dependencies, tracer trace.Tracer) *OrderApplicationService {
	if deps.Locker == nil {
		deps.Locker = lock.NoopLocker{}
	}
	if deps.ProcessingTimeout <= 0 {
		deps.ProcessingTimeout = 15 * time.Second
	}
	return &OrderApplicationService{deps: deps, tracer: tracer}
}

// Checkout 把购物车变成一个待支付订单并返回支付跳转地址。
// 预占库存之后的任何失败都会释放库存，已落库的订单标记为 FAILED。
func (s *OrderApplicationService) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "app.Checkout")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		metrics.Checkouts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	cart, err := s.deps.Carts.Load(ctx, req.CartID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		metrics.Checkouts.WithLabelValues("empty_cart").Inc()
		return nil, cartdomain.ErrEmptyCart
	}

	order, err := domain.NewOrder(
		uuid.NewString(),
		domain.Customer{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone},
		domain.ShippingDetails{Region: req.Shipping.Region, Commune: req.Shipping.Commune, Address: req.Shipping.Address},
		toOrderLines(cart),
	)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("cart.id", req.CartID))

	processingCtx, cancel := context.WithTimeout(ctx, s.deps.ProcessingTimeout)
	defer cancel()

	orderCtx := &saga.OrderContext{
		Ctx:              processingCtx,
		Order:            order,
		Tracer:           s.tracer,
		ShippingService:  s.deps.Shipping,
		InventoryService: s.deps.Inventory,
		Locker:           s.deps.Locker,
		Payment:          s.deps.Payment,
		Publisher:        s.deps.Publisher,
		ReturnURL:        s.deps.ReturnURL,
	}

	if err := s.buildChain().Handle(orderCtx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("checkout failed, compensating")
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")

		// 补偿不能被已超时的结账上下文取消
		compCtx := context.WithoutCancel(ctx)
		orderCtx.TriggerCompensation(compCtx)
		if orderCtx.Persisted {
			order.MarkAsFailed(err.Error())
			if saveErr := s.deps.Repo.Save(compCtx, order); saveErr != nil {
				logger.Ctx(ctx).Error().Err(saveErr).Str("order_id", order.ID).Msg("CRITICAL: failed to mark order as FAILED")
			}
		}
		metrics.Checkouts.WithLabelValues(checkoutResult(err)).Inc()
		return nil, err
	}

	if err := s.deps.Carts.Clear(ctx, req.CartID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("cart_id", req.CartID).Msg("order placed but cart was not cleared")
	}

	metrics.Checkouts.WithLabelValues("success").Inc()
	metrics.OrderAmount.Observe(float64(order.TotalCLP))
	logger.Ctx(ctx).Info().Str("order_id", order.ID).Int64("total_clp", order.TotalCLP).Msg("order placed, awaiting payment")

	return &CheckoutResponse{
		OrderID:     order.ID,
		Status:      order.State,
		SubtotalCLP: order.SubtotalCLP,
		ShippingCLP: order.Shipping.CostCLP,
		TotalCLP:    order.TotalCLP,
		PaymentURL:  order.PaymentURL,
	}, nil
}

// ConfirmPayment 由支付回调调用，订单变为 PAID 并发布 OrderPaid
func (s *OrderApplicationService) ConfirmPayment(ctx context.Context, orderID string) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "app.ConfirmPayment")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.deps.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Pay(); err != nil {
		return nil, err
	}
	if err := s.deps.Repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save paid order: %w", err)
	}
	s.publish(ctx, domain.EventOrderPaid, order)

	view := ToOrderView(order)
	return &view, nil
}

// Cancel 取消待支付订单并释放库存
func (s *OrderApplicationService) Cancel(ctx context.Context, orderID string) (*OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.deps.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.deps.Repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save cancelled order: %w", err)
	}

	for _, line := range order.Lines {
		if err := s.deps.Inventory.ReleaseStock(ctx, line.ProductID, line.Quantity); err != nil {
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Int64("product_id", line.ProductID).
				Msg("CRITICAL: failed to release stock for cancelled order")
		}
	}
	s.publish(ctx, domain.EventOrderCancelled, order)

	view := ToOrderView(order)
	return &view, nil
}

func (s *OrderApplicationService) Get(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := s.deps.Repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := ToOrderView(order)
	return &view, nil
}

// ListRecent 供生产面板使用，limit 被限制在 [1, 200]
func (s *OrderApplicationService) ListRecent(ctx context.Context, limit int) ([]OrderView, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRecentOrders {
		limit = maxRecentOrders
	}
	orders, err := s.deps.Repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = ToOrderView(o)
	}
	return views, nil
}

func (s *OrderApplicationService) publish(ctx context.Context, eventType domain.EventType, order *domain.Order) {
	event := domain.NewOrderEvent(eventType, uuid.NewString(), order)
	if err := s.deps.Publisher.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Str("event", string(eventType)).Msg("failed to publish order event")
	}
}

func (s *OrderApplicationService) buildChain() saga.Handler {
	chain := new(saga.ShippingQuoteHandler)
	chain.
		SetNext(new(saga.InventoryHandler)).
		SetNext(saga.NewCreateOrderHandler(s.deps.Repo)).
		SetNext(saga.NewPaymentHandler(s.deps.Repo)).
		SetNext(new(saga.NotificationHandler))
	return chain
}

func toOrderLines(cart *cartdomain.Cart) []domain.Line {
	lines := make([]domain.Line, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = domain.Line{
			ProductID:       l.ProductID,
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPriceCLP:    l.UnitPriceCLP,
			UnitWeightGrams: l.UnitWeightGrams,
		}
	}
	return lines
}

func checkoutResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrShippingUndetermined):
		return "undetermined_shipping"
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return "out_of_stock"
	case errors.Is(err, lock.ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}
