package port

import (
	"context"

	shippingdomain "mycelium/internal/service/shipping/domain"
)

// ShippingService 给出运费报价，可以在进程内计算也可以远程调用 shipping-service
type ShippingService interface {
	Quote(ctx context.Context, region string, weightGrams int64) (shippingdomain.Quote, error)
}
