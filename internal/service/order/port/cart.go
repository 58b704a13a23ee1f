package port

import (
	"context"

	cartdomain "mycelium/internal/service/cart/domain"
)

// CartStore 是结账时读取和清空购物车的端口
type CartStore interface {
	Load(ctx context.Context, cartID string) (*cartdomain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}
