// internal/service/catalog/domain/product.go
package domain

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrKitSettingsNotFound = errors.New("kit settings not found")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductInactive     = errors.New("product is not available")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Product 是商店里可购买的一款种植套件
type Product struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	PriceCLP    int64 // 单价，整数比索
	WeightGrams int64 // 单件可运输重量
	Stock       int
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate 检查商品的基本不变量
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return errors.Join(ErrInvalidProduct, errors.New("name is required"))
	case !slugPattern.MatchString(p.Slug):
		return errors.Join(ErrInvalidProduct, errors.New("slug must be lowercase words joined by dashes"))
	case p.PriceCLP <= 0:
		return errors.Join(ErrInvalidProduct, errors.New("price must be positive"))
	case p.WeightGrams < 0:
		return errors.Join(ErrInvalidProduct, errors.New("weight must not be negative"))
	case p.Stock < 0:
		return errors.Join(ErrInvalidProduct, errors.New("stock must not be negative"))
	}
	return nil
}

// Purchasable 判断能否加入购物车
func (p *Product) Purchasable(qty int) error {
	if !p.Active {
		return ErrProductInactive
	}
	if qty > p.Stock {
		return ErrInsufficientStock
	}
	return nil
}

// KitSettings 是套件的生产参数，在商品详情页和生产面板中展示
type KitSettings struct {
	ProductID        int64
	Species          string
	FormulationID    int64
	SubstrateGrams   int64
	SpawnGrams       int64
	FruitingDays     int
	CareInstructions string
	UpdatedAt        time.Time
}

func (k *KitSettings) Validate() error {
	if k.ProductID == 0 || k.Species == "" {
		return errors.Join(ErrInvalidProduct, errors.New("kit settings need a product and a species"))
	}
	if k.SubstrateGrams <= 0 || k.SpawnGrams < 0 || k.FruitingDays < 0 {
		return errors.Join(ErrInvalidProduct, errors.New("kit weights and days must be positive"))
	}
	return nil
}

// Kit 是商品详情页需要的聚合视图
type Kit struct {
	Product  *Product
	Settings *KitSettings // 可能为空
}
