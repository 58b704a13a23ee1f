package application

import (
	"mycelium/internal/service/cart/domain"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

type AddItemRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1,lte=99"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=99"`
}

// CartView 是购物车的对外表示
type CartView struct {
	ID          string        `json:"id"`
	Lines       []domain.Line `json:"lines"`
	ItemCount   int           `json:"itemCount"`
	SubtotalCLP int64         `json:"subtotalClp"`
	WeightGrams int64         `json:"weightGrams"`
}

// CartQuote 是结账页展示的金额拆分
type CartQuote struct {
	CartView
	Shipping shippingdomain.Quote `json:"shipping"`
	TotalCLP int64                `json:"totalClp"`
}

func toCartView(c *domain.Cart) CartView {
	lines := c.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return CartView{
		ID:          c.ID,
		Lines:       lines,
		ItemCount:   c.ItemCount(),
		SubtotalCLP: c.Subtotal(),
		WeightGrams: c.TotalWeight(),
	}
}
