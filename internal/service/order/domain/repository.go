// internal/service/order/domain/repository.go
package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，但由基础设施层实现。
type OrderRepository interface {
	// Save 保存一个订单聚合（用于创建或更新）。
	Save(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id string) (*Order, error)

	// ListRecent 按创建时间倒序返回最近的订单
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
}
