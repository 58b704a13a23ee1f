package domain

import "context"

// CartRepository 持久化购物车；找不到时返回一个空购物车而不是错误
type CartRepository interface {
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, cartID string) error
}
