package infrastructure

import (
	"time"

	"gorm.io/gorm"
)

// ProductModel 对应数据库中的 products 表
type ProductModel struct {
	gorm.Model
	Slug        string `gorm:"size:96;uniqueIndex"`
	Name        string `gorm:"size:160"`
	Description string `gorm:"type:text"`
	PriceCLP    int64
	WeightGrams int64
	Stock       int
	ImageURL    string `gorm:"size:512"`
	Active      bool `gorm:"index"`
}

// TableName 指定 GORM 应该使用的表名
func (ProductModel) TableName() string {
	return "products"
}

// KitSettingsModel 对应 kit_settings 表，每个商品最多一行
type KitSettingsModel struct {
	ProductID        uint `gorm:"primaryKey;autoIncrement:false"`
	Species          string `gorm:"size:96"`
	FormulationID    uint
	SubstrateGrams   int64
	SpawnGrams       int64
	FruitingDays     int
	CareInstructions string `gorm:"type:text"`
	UpdatedAt        time.Time
}

func (KitSettingsModel) TableName() string {
	return "kit_settings"
}

// AutoMigrate 创建或更新 catalog 相关的表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ProductModel{}, &KitSettingsModel{})
}
