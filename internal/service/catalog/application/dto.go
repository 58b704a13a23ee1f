package application

// ProductRequest 是创建/更新商品的请求体
type ProductRequest struct {
	Slug        string `json:"slug" validate:"required,max=96"`
	Name        string `json:"name" validate:"required,max=160"`
	Description string `json:"description"`
	PriceCLP    int64  `json:"priceClp" validate:"gt=0"`
	WeightGrams int64  `json:"weightGrams" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Active      bool   `json:"active"`
}

// KitSettingsRequest 是保存套件参数的请求体
type KitSettingsRequest struct {
	Species          string `json:"species" validate:"required"`
	FormulationID    int64  `json:"formulationId" validate:"gte=0"`
	SubstrateGrams   int64  `json:"substrateGrams" validate:"gt=0"`
	SpawnGrams       int64  `json:"spawnGrams" validate:"gte=0"`
	FruitingDays     int    `json:"fruitingDays" validate:"gte=0"`
	CareInstructions string `json:"careInstructions"`
}

// ProductView 是对外展示的商品
type ProductView struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCLP    int64  `json:"priceClp"`
	WeightGrams int64  `json:"weightGrams"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"imageUrl"`
	Active      bool   `json:"active"`
}

// KitView 是商品详情页的响应体
type KitView struct {
	Product  ProductView       `json:"product"`
	Settings *KitSettingsView `json:"settings,omitempty"`
}

type KitSettingsView struct {
	Species          string `json:"species"`
	FormulationID    int64  `json:"formulationId"`
	SubstrateGrams   int64  `json:"substrateGrams"`
	SpawnGrams       int64  `json:"spawnGrams"`
	FruitingDays     int    `json:"fruitingDays"`
	CareInstructions string `json:"careInstructions"`
}
