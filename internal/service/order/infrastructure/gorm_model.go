// internal/service/order/infrastructure/gorm_model.go
package infrastructure

import (
	"time"

	"gorm.io/gorm"

	"mycelium/internal/service/order/domain"
)

// OrderModel 对应数据库中的 orders 表，订单行以 JSON 列保存
type OrderModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	CustomerName  string `gorm:"size:120"`
	CustomerEmail string `gorm:"size:254;index"`
	CustomerPhone string `gorm:"size:32"`

	ShippingRegion      string `gorm:"size:64"`
	ShippingCommune     string `gorm:"size:80"`
	ShippingAddress     string `gorm:"size:200"`
	ShippingZone        string `gorm:"size:16"`
	ShippingSizeClass   string `gorm:"size:4"`
	ShippingWeightGrams int64
	ShippingCostCLP     int64

	Lines       []domain.Line `gorm:"serializer:json;type:json"`
	SubtotalCLP int64
	TotalCLP    int64
	State       string `gorm:"size:24;index"`

	PaymentURL       string `gorm:"size:512"`
	PaymentReference string `gorm:"size:128"`
	FailureReason    string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	PaidAt    *time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&OrderModel{})
}
