package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mycelium/internal/service/order/domain"
)

func TestOrderMapperRoundTrip(t *testing.T) {
	paid := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &domain.Order{
		ID:       "o-1",
		Customer: domain.Customer{Name: "Ana", Email: "ana@example.cl", Phone: "+56 9 1234 5678"},
		Shipping: domain.ShippingDetails{Region: "Ñuble", Commune: "Chillán", Address: "Arauco 500", Zone: "Centro", SizeClass: "XS", WeightGrams: 900, CostCLP: 4300},
		Lines:    []domain.Line{{ProductID: 3, Name: "Kit Ostra Rosa", Quantity: 1, UnitPriceCLP: 9990, UnitWeightGrams: 900}},
		SubtotalCLP: 9990,
		TotalCLP:    14290,
		State:       domain.StatePaid,
		PaymentURL:  "https://pay.example.cl/r/o-1",
		PaidAt:      &paid,
	}

	got := ToDomainOrder(FromDomainOrder(o))
	assert.Equal(t, o, got)
}
