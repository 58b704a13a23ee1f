// internal/service/order/domain/order.go
package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInvalidTransition    = errors.New("invalid order state transition")
	ErrShippingUndetermined = errors.New("shipping cost cannot be determined for this destination")
)

// Line 是订单行，价格在下单时冻结
type Line struct {
	ProductID       int64  `json:"productId"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPriceCLP    int64  `json:"unitPriceClp"`
	UnitWeightGrams int64  `json:"unitWeightGrams"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingDetails 是收货地址加上报价结果
type ShippingDetails struct {
	Region      string `json:"region"`
	Commune     string `json:"commune"`
	Address     string `json:"address"`
	Zone        string `json:"zone"`
	SizeClass   string `json:"sizeClass"`
	WeightGrams int64  `json:"weightGrams"`
	CostCLP     int64  `json:"costClp"`
}

// Order 是订单聚合的根实体
type Order struct {
	ID          string
	Customer    Customer
	Shipping    ShippingDetails
	Lines       []Line
	SubtotalCLP int64
	TotalCLP    int64
	State       State

	PaymentURL       string
	PaymentReference string
	FailureReason    string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}

// NewOrder 用于创建一个新的订单实例，运费在报价之后通过 ApplyShipping 写入
func NewOrder(id string, customer Customer, shipping ShippingDetails, lines []Line) (*Order, error) {
	if id == "" || len(lines) == 0 {
		return nil, fmt.Errorf("%w: an order needs an id and at least one line", ErrInvalidOrder)
	}
	var subtotal, weight int64
	for _, l := range lines {
		if l.Quantity <= 0 || l.UnitPriceCLP < 0 || l.UnitWeightGrams < 0 {
			return nil, fmt.Errorf("%w: bad line for product %d", ErrInvalidOrder, l.ProductID)
		}
		subtotal += l.UnitPriceCLP * int64(l.Quantity)
		weight += l.UnitWeightGrams * int64(l.Quantity)
	}
	shipping.WeightGrams = weight

	now := time.Now().UTC()
	return &Order{
		ID:          id,
		Customer:    customer,
		Shipping:    shipping,
		Lines:       append([]Line(nil), lines...),
		SubtotalCLP: subtotal,
		TotalCLP:    subtotal,
		State:       StateCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ApplyShipping 写入报价结果并重新计算总额
func (o *Order) ApplyShipping(zone, sizeClass string, cost int64) {
	o.Shipping.Zone = zone
	o.Shipping.SizeClass = sizeClass
	o.Shipping.CostCLP = cost
	o.TotalCLP = o.SubtotalCLP + cost
	o.touch()
}

// MarkAsPendingPayment 只负责状态流转，不负责调用外部服务
func (o *Order) MarkAsPendingPayment() error {
	if o.State != StateCreated {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, StatePendingPayment)
	}
	o.State = StatePendingPayment
	o.touch()
	return nil
}

// AttachPayment 记录支付网关返回的跳转地址
func (o *Order) AttachPayment(redirectURL, reference string) {
	o.PaymentURL = redirectURL
	o.PaymentReference = reference
	o.touch()
}

// MarkAsFailed 将订单标记为失败
func (o *Order) MarkAsFailed(reason string) {
	o.State = StateFailed
	o.FailureReason = reason
	o.touch()
}

// Cancel 只有待支付的订单可以被取消
func (o *Order) Cancel() error {
	if o.State != StatePendingPayment {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, StateCancelled)
	}
	o.State = StateCancelled
	o.touch()
	return nil
}

func (o *Order) Pay() error {
	if o.State != StatePendingPayment {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.State, StatePaid)
	}
	now := time.Now().UTC()
	o.State = StatePaid
	o.PaidAt = &now
	o.UpdatedAt = now
	return nil
}

func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
