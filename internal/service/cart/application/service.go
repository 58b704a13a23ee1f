// internal/service/cart/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/cart/domain"
)

// CartService 编排购物车的增删改查以及结账前的报价
type CartService struct {
	carts    domain.CartRepository
	products ProductLookup
	shipping ShippingQuoter
	tracer   trace.Tracer
}

func NewCartService(carts domain.CartRepository, products ProductLookup, shipping ShippingQuoter, tracer trace.Tracer) *CartService {
	return &CartService{carts: carts, products: products, shipping: shipping, tracer: tracer}
}

func (s *CartService) Get(ctx context.Context, cartID string) (*CartView, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	view := toCartView(cart)
	return &view, nil
}

// Load 返回领域对象，供结账流程使用
func (s *CartService) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.carts.Load(ctx, cartID)
}

// AddItem 按当前商品快照加入购物车，合并后的数量不能超过库存
func (s *CartService) AddItem(ctx context.Context, cartID string, req *AddItemRequest) (*CartView, error) {
	ctx, span := s.tracer.Start(ctx, "cart.AddItem")
	defer span.End()
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.Int64("product.id", req.ProductID))

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.Purchasable(cart.Quantity(product.ID) + req.Quantity); err != nil {
		return nil, err
	}

	if err := cart.Add(domain.Line{
		ProductID:       product.ID,
		Name:            product.Name,
		Quantity:        req.Quantity,
		UnitPriceCLP:    product.PriceCLP,
		UnitWeightGrams: product.WeightGrams,
	}); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Ctx(ctx).Debug().Str("cart_id", cartID).Int64("product_id", product.ID).Int("qty", req.Quantity).Msg("item added to cart")
	view := toCartView(cart)
	return &view, nil
}

// SetQuantity 覆盖某一行的数量，<= 0 时移除
func (s *CartService) SetQuantity(ctx context.Context, cartID string, productID int64, req *SetQuantityRequest) (*CartView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		product, err := s.products.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := product.Purchasable(req.Quantity); err != nil {
			return nil, err
		}
	}
	if err := cart.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	view := toCartView(cart)
	return &view, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*CartView, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	view := toCartView(cart)
	return &view, nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.carts.Delete(ctx, cartID)
}

// Quote 计算小计、运费和总额。空购物车的运费为 0
func (s *CartService) Quote(ctx context.Context, cartID, region string) (*CartQuote, error) {
	ctx, span := s.tracer.Start(ctx, "cart.Quote")
	defer span.End()
	span.SetAttributes(attribute.String("cart.id", cartID), attribute.String("shipping.region", region))

	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	quote, err := s.shipping.Quote(ctx, region, cart.TotalWeight())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &CartQuote{
		CartView: toCartView(cart),
		Shipping: quote,
		TotalCLP: domain.Total(cart.Subtotal(), quote.Cost),
	}, nil
}
