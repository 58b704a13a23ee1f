package application

import (
	"context"

	catalogdomain "mycelium/internal/service/catalog/domain"
	orderapp "mycelium/internal/service/order/application"
)

// ProductLookup 用于在标签上打印商品名
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// OrderLister 为面板首页提供最近的订单
type OrderLister interface {
	ListRecent(ctx context.Context, limit int) ([]orderapp.OrderView, error)
}
