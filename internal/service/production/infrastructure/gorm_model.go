// internal/service/production/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"

	"mycelium/internal/service/production/domain"
)

// BatchModel 对应数据库中的 batches 表
type BatchModel struct {
	gorm.Model
	Code          string `gorm:"size:32;uniqueIndex"`
	ProductID     int64  `gorm:"index"`
	Strain        string `gorm:"size:120"`
	FormulationID int64
	Status        string `gorm:"size:16;index"`
	Units         int
	InoculatedAt  time.Time
	Notes         string `gorm:"type:text"`
}

func (BatchModel) TableName() string {
	return "batches"
}

// FormulationModel 对应 substrate_formulations 表，原料列表存为 JSON
type FormulationModel struct {
	gorm.Model
	Name        string              `gorm:"size:120"`
	Ingredients []domain.Ingredient `gorm:"serializer:json;type:json"`
	HydrationPc float64
	Notes       string `gorm:"type:text"`
}

func (FormulationModel) TableName() string {
	return "substrate_formulations"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&BatchModel{}, &FormulationModel{})
}
