// internal/service/notification/domain/notification.go
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orderdomain "mycelium/internal/service/order/domain"
)

var ErrNoRecipient = errors.New("notification has no recipient")

// Notification 是发给客户的一条消息
type Notification struct {
	OrderID string
	To      string
	Name    string
	Subject string
	Body    string
}

// Compose 根据订单事件生成客户通知；不需要通知的事件返回 ok=false
func Compose(event orderdomain.OrderEvent) (n Notification, ok bool, err error) {
	if event.CustomerEmail == "" {
		return Notification{}, false, fmt.Errorf("%w: order %s", ErrNoRecipient, event.OrderID)
	}
	n = Notification{OrderID: event.OrderID, To: event.CustomerEmail, Name: event.CustomerName}

	switch event.Type {
	case orderdomain.EventOrderPlaced:
		n.Subject = fmt.Sprintf("Recibimos tu pedido %s", shortID(event.OrderID))
		n.Body = fmt.Sprintf("Hola %s, tu pedido de %d kit(s) por %s (despacho a %s: %s) está esperando el pago.",
			event.CustomerName, event.ItemCount, FormatCLP(event.TotalCLP), event.Region, FormatCLP(event.ShippingCLP))
		if event.PaymentURL != "" {
			n.Body += " Puedes completarlo aquí: " + event.PaymentURL
		}
	case orderdomain.EventOrderPaid:
		n.Subject = fmt.Sprintf("Pago confirmado para tu pedido %s", shortID(event.OrderID))
		n.Body = fmt.Sprintf("Hola %s, confirmamos el pago de %s. Prepararemos tus kits y te avisaremos cuando salgan a %s.",
			event.CustomerName, FormatCLP(event.TotalCLP), event.Region)
	case orderdomain.EventOrderCancelled:
		n.Subject = fmt.Sprintf("Tu pedido %s fue anulado", shortID(event.OrderID))
		n.Body = fmt.Sprintf("Hola %s, tu pedido por %s fue anulado y no se realizó ningún cobro.",
			event.CustomerName, FormatCLP(event.TotalCLP))
	default:
		return Notification{}, false, nil
	}
	return n, true, nil
}

// FormatCLP 按智利习惯用点分隔千位，例如 $35.080
func FormatCLP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
