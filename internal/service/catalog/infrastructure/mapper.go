package infrastructure

import (
	"gorm.io/gorm"

	"mycelium/internal/service/catalog/domain"
)

// ToDomainProduct 将数据库模型转换为领域模型
func ToDomainProduct(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}
	return &domain.Product{
		ID:          int64(model.ID),
		Slug:        model.Slug,
		Name:        model.Name,
		Description: model.Description,
		PriceCLP:    model.PriceCLP,
		WeightGrams: model.WeightGrams,
		Stock:       model.Stock,
		ImageURL:    model.ImageURL,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// FromDomainProduct 将领域模型转换为数据库模型，ID 为 0 时 GORM 会执行插入
func FromDomainProduct(p *domain.Product) *ProductModel {
	if p == nil {
		return nil
	}
	return &ProductModel{
		Model: gorm.Model{
			ID:        uint(p.ID),
			CreatedAt: p.CreatedAt,
		},
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

func ToDomainKitSettings(model *KitSettingsModel) *domain.KitSettings {
	if model == nil {
		return nil
	}
	return &domain.KitSettings{
		ProductID:        int64(model.ProductID),
		Species:          model.Species,
		FormulationID:    int64(model.FormulationID),
		SubstrateGrams:   model.SubstrateGrams,
		SpawnGrams:       model.SpawnGrams,
		FruitingDays:     model.FruitingDays,
		CareInstructions: model.CareInstructions,
		UpdatedAt:        model.UpdatedAt,
	}
}

func FromDomainKitSettings(k *domain.KitSettings) *KitSettingsModel {
	if k == nil {
		return nil
	}
	return &KitSettingsModel{
		ProductID:        uint(k.ProductID),
		Species:          k.Species,
		FormulationID:    uint(k.FormulationID),
		SubstrateGrams:   k.SubstrateGrams,
		SpawnGrams:       k.SpawnGrams,
		FruitingDays:     k.FruitingDays,
		CareInstructions: k.CareInstructions,
	}
}
