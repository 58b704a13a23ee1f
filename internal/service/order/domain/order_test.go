package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(t *testing.T) *Order {
	o, err := NewOrder("o-1", Customer{Name: "Ana", Email: "ana@example.cl"},
		ShippingDetails{Region: "Maule", Commune: "Talca", Address: "1 Sur 123"},
		[]Line{
			{ProductID: 1, Quantity: 2, UnitPriceCLP: 14990, UnitWeightGrams: 1200},
			{ProductID: 2, Quantity: 1, UnitPriceCLP: 17990, UnitWeightGrams: 1600},
		})
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	o := sampleOrder(t)
	assert.Equal(t, StateCreated, o.State)
	assert.Equal(t, int64(47970), o.SubtotalCLP)
	assert.Equal(t, int64(4000), o.Shipping.WeightGrams)
	assert.Equal(t, 3, o.ItemCount())

	o.ApplyShipping("Centro", "M", 6300)
	assert.Equal(t, int64(47970+6300), o.TotalCLP)

	_, err := NewOrder("o-2", Customer{}, ShippingDetails{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder("o-3", Customer{}, ShippingDetails{}, []Line{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestOrder_Transitions(t *testing.T) {
	o := sampleOrder(t)
	assert.ErrorIs(t, o.Pay(), ErrInvalidTransition)
	assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)

	require.NoError(t, o.MarkAsPendingPayment())
	assert.ErrorIs(t, o.MarkAsPendingPayment(), ErrInvalidTransition)

	require.NoError(t, o.Pay())
	assert.NotNil(t, o.PaidAt)
	assert.True(t, o.State.Terminal())
	assert.ErrorIs(t, o.Cancel(), ErrInvalidTransition)

	other := sampleOrder(t)
	require.NoError(t, other.MarkAsPendingPayment())
	require.NoError(t, other.Cancel())
	assert.Equal(t, StateCancelled, other.State)

	failed := sampleOrder(t)
	failed.MarkAsFailed("payment gateway unavailable")
	assert.Equal(t, StateFailed, failed.State)
	assert.Equal(t, "payment gateway unavailable", failed.FailureReason)
}
