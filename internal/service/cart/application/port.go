package application

import (
	"context"

	catalogdomain "mycelium/internal/service/catalog/domain"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

// ProductLookup 是商品目录的出站端口
type ProductLookup interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// ShippingQuoter 是运费计算的出站端口，可以是进程内实现也可以是 shipping-service
type ShippingQuoter interface {
	Quote(ctx context.Context, region string, weightGrams int64) (shippingdomain.Quote, error)
}
