package infrastructure

import (
	"gorm.io/gorm"

	"mycelium/internal/service/production/domain"
)

func ToDomainBatch(m *BatchModel) *domain.Batch {
	return &domain.Batch{
		ID:            int64(m.ID),
		Code:          m.Code,
		ProductID:     m.ProductID,
		Strain:        m.Strain,
		FormulationID: m.FormulationID,
		Status:        domain.BatchStatus(m.Status),
		Units:         m.Units,
		InoculatedAt:  m.InoculatedAt,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromDomainBatch(b *domain.Batch) *BatchModel {
	return &BatchModel{
		Model:         gorm.Model{ID: uint(b.ID), CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		Code:          b.Code,
		ProductID:     b.ProductID,
		Strain:        b.Strain,
		FormulationID: b.FormulationID,
		Status:        string(b.Status),
		Units:         b.Units,
		InoculatedAt:  b.InoculatedAt,
		Notes:         b.Notes,
	}
}

func ToDomainFormulation(m *FormulationModel) *domain.SubstrateFormulation {
	return &domain.SubstrateFormulation{
		ID:          int64(m.ID),
		Name:        m.Name,
		Ingredients: m.Ingredients,
		HydrationPc: m.HydrationPc,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDomainFormulation(f *domain.SubstrateFormulation) *FormulationModel {
	return &FormulationModel{
		Model:       gorm.Model{ID: uint(f.ID), CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt},
		Name:        f.Name,
		Ingredients: f.Ingredients,
		HydrationPc: f.HydrationPc,
		Notes:       f.Notes,
	}
}
