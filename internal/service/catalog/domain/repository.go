// internal/service/catalog/domain/repository.go
package domain

import "context"

// ProductRepository 定义了商品的持久化接口，由基础设施层实现
type ProductRepository interface {
	ListActive(ctx context.Context) ([]*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, product *Product) error

	// AdjustStock 原子地增减库存，结果为负时返回 ErrInsufficientStock
	AdjustStock(ctx context.Context, id int64, delta int) error
}

type KitSettingsRepository interface {
	FindByProductID(ctx context.Context, productID int64) (*KitSettings, error)
	Save(ctx context.Context, settings *KitSettings) error
}
