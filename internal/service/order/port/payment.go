package port

import (
	"context"

	"mycelium/internal/service/order/domain"
)

// PaymentRequest 是发给支付网关的数据：金额以及收货信息
type PaymentRequest struct {
	OrderID   string                 `json:"orderId"`
	AmountCLP int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Customer  domain.Customer        `json:"customer"`
	Shipping  domain.ShippingDetails `json:"shipping"`
	ReturnURL string                 `json:"returnUrl"`
}

// PaymentSession 是支付网关返回的结果
type PaymentSession struct {
	RedirectURL string `json:"redirectUrl"`
	Reference   string `json:"reference"`
}

// PaymentGateway 对外部支付服务的抽象，它只负责发起支付
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
}
