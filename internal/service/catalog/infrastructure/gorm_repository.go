package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mycelium/internal/service/catalog/domain"
)

// GormProductRepository 是 ProductRepository 的 GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	var models []*ProductModel
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func (r *GormProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	var models []*ProductModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(models), nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.findOne(r.db.WithContext(ctx).Where("slug = ?", slug))
}

func (r *GormProductRepository) findOne(q *gorm.DB) (*domain.Product, error) {
	var model ProductModel
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return ToDomainProduct(&model), nil
}

// Save 插入或更新商品，并把生成的 ID 和时间戳回写到领域对象
func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	model := FromDomainProduct(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	product.ID = int64(model.ID)
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// AdjustStock 用条件更新保证库存不会被扣成负数
func (r *GormProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func toDomainProducts(models []*ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = ToDomainProduct(m)
	}
	return products
}

// GormKitSettingsRepository 是 KitSettingsRepository 的 GORM 实现
type GormKitSettingsRepository struct {
	db *gorm.DB
}

func NewGormKitSettingsRepository(db *gorm.DB) *GormKitSettingsRepository {
	return &GormKitSettingsRepository{db: db}
}

func (r *GormKitSettingsRepository) FindByProductID(ctx context.Context, productID int64) (*domain.KitSettings, error) {
	var model KitSettingsModel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrKitSettingsNotFound
		}
		return nil, err
	}
	return ToDomainKitSettings(&model), nil
}

// Save 以 product_id 为主键做 upsert
func (r *GormKitSettingsRepository) Save(ctx context.Context, settings *domain.KitSettings) error {
	model := FromDomainKitSettings(settings)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(model).Error
	if err != nil {
		return err
	}
	settings.UpdatedAt = model.UpdatedAt
	return nil
}
