// internal/service/production/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mycelium/internal/service/production/domain"
)

// GormBatchRepository 是 BatchRepository 的 GORM 实现
type GormBatchRepository struct {
	db *gorm.DB
}

func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) Save(ctx context.Context, batch *domain.Batch) error {
	model := FromDomainBatch(batch)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	batch.ID = int64(model.ID)
	batch.CreatedAt = model.CreatedAt
	batch.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormBatchRepository) FindByID(ctx context.Context, id int64) (*domain.Batch, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormBatchRepository) FindByCode(ctx context.Context, code string) (*domain.Batch, error) {
	return r.findOne(r.db.WithContext(ctx).Where("code = ?", code))
}

func (r *GormBatchRepository) findOne(q *gorm.DB) (*domain.Batch, error) {
	var model BatchModel
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, err
	}
	return ToDomainBatch(&model), nil
}

func (r *GormBatchRepository) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.Batch, error) {
	q := r.db.WithContext(ctx).Order("inoculated_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var models []*BatchModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	batches := make([]*domain.Batch, len(models))
	for i, m := range models {
		batches[i] = ToDomainBatch(m)
	}
	return batches, nil
}

func (r *GormBatchRepository) CountByStatus(ctx context.Context) (map[domain.BatchStatus]int, error) {
	var rows []struct {
		Status string
		Total  int
	}
	err := r.db.WithContext(ctx).Model(&BatchModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.BatchStatus]int, len(rows))
	for _, row := range rows {
		counts[domain.BatchStatus(row.Status)] = row.Total
	}
	return counts, nil
}

// GormFormulationRepository 是 FormulationRepository 的 GORM 实现
type GormFormulationRepository struct {
	db *gorm.DB
}

func NewGormFormulationRepository(db *gorm.DB) *GormFormulationRepository {
	return &GormFormulationRepository{db: db}
}

func (r *GormFormulationRepository) Save(ctx context.Context, f *domain.SubstrateFormulation) error {
	model := FromDomainFormulation(f)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	f.ID = int64(model.ID)
	f.CreatedAt = model.CreatedAt
	f.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormFormulationRepository) FindByID(ctx context.Context, id int64) (*domain.SubstrateFormulation, error) {
	var model FormulationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFormulationNotFound
		}
		return nil, err
	}
	return ToDomainFormulation(&model), nil
}

func (r *GormFormulationRepository) List(ctx context.Context) ([]*domain.SubstrateFormulation, error) {
	var models []*FormulationModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.SubstrateFormulation, len(models))
	for i, m := range models {
		out[i] = ToDomainFormulation(m)
	}
	return out, nil
}
