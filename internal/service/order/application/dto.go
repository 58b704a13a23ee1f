// internal/service/order/application/dto.go
package application

import (
	"time"

	"mycelium/internal/service/order/domain"
)

// CheckoutRequest 是结账用例的输入数据
type CheckoutRequest struct {
	CartID   string          `json:"cartId" validate:"required,uuid"`
	Customer CustomerInput   `json:"customer" validate:"required"`
	Shipping ShippingAddress `json:"shipping" validate:"required"`
}

type CustomerInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type ShippingAddress struct {
	Region  string `json:"region" validate:"required,region"`
	Commune string `json:"commune" validate:"required,max=80"`
	Address string `json:"address" validate:"required,max=200"`
}

// CheckoutResponse 告诉前端去哪里付款
type CheckoutResponse struct {
	OrderID     string       `json:"orderId"`
	Status      domain.State `json:"status"`
	SubtotalCLP int64        `json:"subtotalClp"`
	ShippingCLP int64        `json:"shippingClp"`
	TotalCLP    int64        `json:"totalClp"`
	PaymentURL  string       `json:"paymentUrl"`
}

// OrderView 是订单的对外表示
type OrderView struct {
	ID            string                 `json:"id"`
	Status        domain.State           `json:"status"`
	Customer      domain.Customer        `json:"customer"`
	Shipping      domain.ShippingDetails `json:"shipping"`
	Lines         []domain.Line          `json:"lines"`
	SubtotalCLP   int64                  `json:"subtotalClp"`
	TotalCLP      int64                  `json:"totalClp"`
	PaymentURL    string                 `json:"paymentUrl,omitempty"`
	FailureReason string                 `json:"failureReason,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	PaidAt        *time.Time             `json:"paidAt,omitempty"`
}

func ToOrderView(o *domain.Order) OrderView {
	return OrderView{
		ID:            o.ID,
		Status:        o.State,
		Customer:      o.Customer,
		Shipping:      o.Shipping,
		Lines:         o.Lines,
		SubtotalCLP:   o.SubtotalCLP,
		TotalCLP:      o.TotalCLP,
		PaymentURL:    o.PaymentURL,
		FailureReason: o.FailureReason,
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
	}
}
