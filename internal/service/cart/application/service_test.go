package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
	shippingapp "mycelium/internal/service/shipping/application"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

type memoryCarts map[string][]domain.Line

func (m memoryCarts) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	return domain.NewCart(cartID, m[cartID]...), nil
}

func (m memoryCarts) Save(ctx context.Context, cart *domain.Cart) error {
	m[cart.ID] = append([]domain.Line(nil), cart.Lines...)
	return nil
}

func (m memoryCarts) Delete(ctx context.Context, cartID string) error {
	delete(m, cartID)
	return nil
}

type staticProducts map[int64]*catalogdomain.Product

func (p staticProducts) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	product, ok := p[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	cp := *product
	return &cp, nil
}

func newTestCartService(t *testing.T) (*CartService, memoryCarts) {
	calc, err := shippingdomain.NewCalculator("Valparaíso", shippingdomain.DefaultCostTable())
	require.NoError(t, err)
	tracer := noop.NewTracerProvider().Tracer("test")
	products := staticProducts{
		1: {ID: 1, Name: "Kit Ostra", PriceCLP: 14990, WeightGrams: 1200, Stock: 5, Active: true},
		2: {ID: 2, Name: "Kit Shiitake", PriceCLP: 17990, WeightGrams: 1600, Stock: 1, Active: true},
		3: {ID: 3, Name: "Kit Retirado", PriceCLP: 9990, WeightGrams: 900, Stock: 10},
	}
	carts := memoryCarts{}
	return NewCartService(carts, products, shippingapp.NewShippingService(calc, tracer), tracer), carts
}

func TestCartService_AddItem(t *testing.T) {
	svc, carts := newTestCartService(t)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(29980), view.SubtotalCLP)
	assert.Equal(t, int64(2400), view.WeightGrams)

	view, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, view.ItemCount)
	assert.Len(t, carts["c1"], 1)

	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 3, Quantity: 1})
	assert.ErrorIs(t, err, catalogdomain.ErrProductInactive)

	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 0})
	assert.ErrorIs(t, err, validation.ErrInvalidRequest)

	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 42, Quantity: 1})
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestCartService_SetQuantityAndRemove(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, "c1", 2, &SetQuantityRequest{Quantity: 2})
	assert.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	view, err := svc.SetQuantity(ctx, "c1", 1, &SetQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, view.ItemCount)

	view, err = svc.SetQuantity(ctx, "c1", 1, &SetQuantityRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)

	view, err = svc.RemoveItem(ctx, "c1", 2)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_Quote(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	empty, err := svc.Quote(ctx, "c1", "Maule")
	require.NoError(t, err)
	assert.Zero(t, empty.Shipping.Cost)
	assert.True(t, empty.Shipping.Determined)
	assert.Zero(t, empty.TotalCLP)

	_, err = svc.AddItem(ctx, "c1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)

	// 2400 g 属于 S，Valparaíso → Maule 是 Centro 区内跨区域
	q, err := svc.Quote(ctx, "c1", "Maule")
	require.NoError(t, err)
	assert.Equal(t, shippingdomain.SizeS, q.Shipping.SizeClass)
	assert.Equal(t, int64(5100), q.Shipping.Cost)
	assert.Equal(t, int64(29980+5100), q.TotalCLP)

	unknown, err := svc.Quote(ctx, "c1", "Narnia")
	require.NoError(t, err)
	assert.False(t, unknown.Shipping.Determined)
	assert.Equal(t, int64(29980), unknown.TotalCLP)
}
