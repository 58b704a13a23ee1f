// internal/service/catalog/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/catalog/domain"
)

// CatalogService 提供商店和生产面板共用的商品用例
type CatalogService struct {
	products domain.ProductRepository
	settings domain.KitSettingsRepository
	tracer   trace.Tracer
}

func NewCatalogService(products domain.ProductRepository, settings domain.KitSettingsRepository, tracer trace.Tracer) *CatalogService {
	return &CatalogService{products: products, settings: settings, tracer: tracer}
}

// ListProducts 返回商品列表，includeInactive 只给生产面板使用
func (s *CatalogService) ListProducts(ctx context.Context, includeInactive bool) ([]ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.ListProducts")
	defer span.End()

	var (
		products []*domain.Product
		err      error
	)
	if includeInactive {
		products, err = s.products.ListAll(ctx)
	} else {
		products, err = s.products.ListActive(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = toProductView(p)
	}
	return views, nil
}

// GetProduct 供购物车和订单查询商品快照
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetKit 返回商品详情页所需的数据；下架商品对商店不可见
func (s *CatalogService) GetKit(ctx context.Context, slug string) (*KitView, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.GetKit")
	defer span.End()
	span.SetAttributes(attribute.String("product.slug", slug))

	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductNotFound
	}

	view := &KitView{Product: toProductView(product)}
	settings, err := s.settings.FindByProductID(ctx, product.ID)
	switch {
	case err == nil:
		view.Settings = toKitSettingsView(settings)
	case errors.Is(err, domain.ErrKitSettingsNotFound):
	default:
		span.RecordError(err)
		return nil, err
	}
	return view, nil
}

// CreateProduct 创建一个新商品
func (s *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.CreateProduct")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	product := &domain.Product{}
	applyProductRequest(product, req)
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	logger.Ctx(ctx).Info().Int64("product_id", product.ID).Str("slug", product.Slug).Msg("product created")
	view := toProductView(product)
	return &view, nil
}

// UpdateProduct 覆盖商品的可编辑字段
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*ProductView, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.UpdateProduct")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", id))

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductRequest(product, req)
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	view := toProductView(product)
	return &view, nil
}

// SetActive 上架或下架
func (s *CatalogService) SetActive(ctx context.Context, id int64, active bool) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Active = active
	return s.products.Save(ctx, product)
}

// SaveKitSettings 保存套件的生产参数
func (s *CatalogService) SaveKitSettings(ctx context.Context, productID int64, req *KitSettingsRequest) (*KitSettingsView, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.SaveKitSettings")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	settings := &domain.KitSettings{
		ProductID:        productID,
		Species:          req.Species,
		FormulationID:    req.FormulationID,
		SubstrateGrams:   req.SubstrateGrams,
		SpawnGrams:       req.SpawnGrams,
		FruitingDays:     req.FruitingDays,
		CareInstructions: req.CareInstructions,
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save kit settings: %w", err)
	}
	return toKitSettingsView(settings), nil
}

// GetKitSettings 供生产面板读取
func (s *CatalogService) GetKitSettings(ctx context.Context, productID int64) (*KitSettingsView, error) {
	settings, err := s.settings.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toKitSettingsView(settings), nil
}

// ReserveStock 扣减库存，由订单结账流程调用
func (s *CatalogService) ReserveStock(ctx context.Context, productID int64, qty int) error {
	return s.products.AdjustStock(ctx, productID, -qty)
}

// ReleaseStock 是 ReserveStock 的补偿操作
func (s *CatalogService) ReleaseStock(ctx context.Context, productID int64, qty int) error {
	return s.products.AdjustStock(ctx, productID, qty)
}

func applyProductRequest(p *domain.Product, req *ProductRequest) {
	p.Slug = req.Slug
	p.Name = req.Name
	p.Description = req.Description
	p.PriceCLP = req.PriceCLP
	p.WeightGrams = req.WeightGrams
	p.Stock = req.Stock
	p.ImageURL = req.ImageURL
	p.Active = req.Active
}

func toProductView(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		PriceCLP:    p.PriceCLP,
		WeightGrams: p.WeightGrams,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
	}
}

func toKitSettingsView(k *domain.KitSettings) *KitSettingsView {
	return &KitSettingsView{
		Species:          k.Species,
		FormulationID:    k.FormulationID,
		SubstrateGrams:   k.SubstrateGrams,
		SpawnGrams:       k.SpawnGrams,
		FruitingDays:     k.FruitingDays,
		CareInstructions: k.CareInstructions,
	}
}
