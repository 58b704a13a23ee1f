package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/lock"
	"mycelium/internal/service/order/domain"
)

var errOutOfStock = errors.New("out of stock")

type stockBook struct {
	stock    map[int64]int
	released []int64
}

func (s *stockBook) ReserveStock(ctx context.Context, productID int64, qty int) error {
	if s.stock[productID] < qty {
		return errOutOfStock
	}
	s.stock[productID] -= qty
	return nil
}

func (s *stockBook) ReleaseStock(ctx context.Context, productID int64, qty int) error {
	s.stock[productID] += qty
	s.released = append(s.released, productID)
	return nil
}

type failingStep struct {
	NextHandler
}

func (failingStep) Handle(orderCtx *OrderContext) error {
	return errors.New("later step failed")
}

func newOrderContext(lines ...domain.Line) *OrderContext {
	return &OrderContext{
		Ctx:    context.Background(),
		Order:  &domain.Order{ID: "o-1", Lines: lines},
		Tracer: noop.NewTracerProvider().Tracer("test"),
		Locker: lock.NoopLocker{},
	}
}

func TestOrderContext_CompensationsRunInReverse(t *testing.T) {
	orderCtx := newOrderContext()

	var ran []string
	for _, name := range []string{"reserve", "persist", "pay"} {
		name := name
		orderCtx.AddCompensation(func(ctx context.Context) { ran = append(ran, name) })
	}

	orderCtx.TriggerCompensation(context.Background())
	assert.Equal(t, []string{"pay", "persist", "reserve"}, ran)

	// 已执行的补偿不会再次执行
	orderCtx.TriggerCompensation(context.Background())
	assert.Len(t, ran, 3)
}

func TestInventoryHandler_ReleasesReservedLinesOnLaterFailure(t *testing.T) {
	book := &stockBook{stock: map[int64]int{1: 5, 2: 5}}
	orderCtx := newOrderContext(
		domain.Line{ProductID: 2, Quantity: 1},
		domain.Line{ProductID: 1, Quantity: 2},
	)
	orderCtx.InventoryService = book

	h := &InventoryHandler{}
	h.SetNext(&failingStep{})

	err := h.Handle(orderCtx)
	require.Error(t, err)
	assert.Equal(t, 3, book.stock[1])
	assert.Equal(t, 4, book.stock[2])

	orderCtx.TriggerCompensation(context.Background())
	assert.Equal(t, 5, book.stock[1])
	assert.Equal(t, 5, book.stock[2])
	// 按商品 ID 升序预占，补偿按相反顺序释放
	assert.Equal(t, []int64{2, 1}, book.released)
}

func TestInventoryHandler_PartialReservation(t *testing.T) {
	book := &stockBook{stock: map[int64]int{1: 5, 2: 0}}
	orderCtx := newOrderContext(
		domain.Line{ProductID: 1, Quantity: 2},
		domain.Line{ProductID: 2, Quantity: 1},
	)
	orderCtx.InventoryService = book

	err := (&InventoryHandler{}).Handle(orderCtx)
	assert.ErrorIs(t, err, errOutOfStock)
	assert.Equal(t, 3, book.stock[1])

	orderCtx.TriggerCompensation(context.Background())
	assert.Equal(t, 5, book.stock[1])
	assert.Equal(t, []int64{1}, book.released)
}
