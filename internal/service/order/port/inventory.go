package port

import (
	"context"
)

// InventoryService 是库存的出站端口，以商品为粒度预占和释放
type InventoryService interface {
	// ReserveStock 扣减库存，不足时返回 ErrInsufficientStock
	ReserveStock(ctx context.Context, productID int64, qty int) error

	// ReleaseStock 是 ReserveStock 的补偿操作，用于释放预占的库存。
	ReleaseStock(ctx context.Context, productID int64, qty int) error
}
