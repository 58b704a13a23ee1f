// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mycelium/internal/service/order/domain"
)

// GormOrderRepository 是 OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save 以主键 upsert 整个订单
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(FromDomainOrder(order)).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

func (r *GormOrderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	var models []*OrderModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(models))
	for i, m := range models {
		orders[i] = ToDomainOrder(m)
	}
	return orders, nil
}
