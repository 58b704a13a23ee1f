// internal/service/order/domain/event.go
package domain

import "time"

// EventType 区分 order-events 主题上的消息
type EventType string

const (
	EventOrderPlaced    EventType = "OrderPlaced"
	EventOrderPaid      EventType = "OrderPaid"
	EventOrderCancelled EventType = "OrderCancelled"
)

// OrderEvent 是发布到 order-events 的消息体，notification-service 据此通知客户
type OrderEvent struct {
	Type          EventType `json:"type"`
	EventID       string    `json:"eventId"`
	OrderID       string    `json:"orderId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	TotalCLP      int64     `json:"totalClp"`
	ShippingCLP   int64     `json:"shippingClp"`
	Region        string    `json:"region"`
	ItemCount     int       `json:"itemCount"`
	PaymentURL    string    `json:"paymentUrl,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewOrderEvent 用订单当前的快照构造事件
func NewOrderEvent(eventType EventType, eventID string, o *Order) OrderEvent {
	return OrderEvent{
		Type:          eventType,
		EventID:       eventID,
		OrderID:       o.ID,
		CustomerName:  o.Customer.Name,
		CustomerEmail: o.Customer.Email,
		TotalCLP:      o.TotalCLP,
		ShippingCLP:   o.Shipping.CostCLP,
		Region:        o.Shipping.Region,
		ItemCount:     o.ItemCount(),
		PaymentURL:    o.PaymentURL,
		OccurredAt:    time.Now().UTC(),
	}
}
