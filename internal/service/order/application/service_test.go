package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/validation"
	cartdomain "mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/order/domain"
	"mycelium/internal/service/order/infrastructure/adapter"
	"mycelium/internal/service/order/port"
	shippingapp "mycelium/internal/service/shipping/application"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

const testCartID = "6f1c8a52-3d4e-4b7a-9a51-2f0f4c3b9d11"

type memoryOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func (m *memoryOrders) Save(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orders == nil {
		m.orders = map[string]domain.Order{}
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *memoryOrders) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memoryOrders) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Order
	for _, o := range m.orders {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryCarts struct {
	carts   map[string]*cartdomain.Cart
	cleared []string
}

func (m *memoryCarts) Load(ctx context.Context, cartID string) (*cartdomain.Cart, error) {
	if c, ok := m.carts[cartID]; ok {
		return c, nil
	}
	return cartdomain.NewCart(cartID), nil
}

func (m *memoryCarts) Clear(ctx context.Context, cartID string) error {
	delete(m.carts, cartID)
	m.cleared = append(m.cleared, cartID)
	return nil
}

type fakeInventory struct {
	stock map[int64]int
}

func (f *fakeInventory) ReserveStock(ctx context.Context, productID int64, qty int) error {
	if f.stock[productID] < qty {
		return catalogdomain.ErrInsufficientStock
	}
	f.stock[productID] -= qty
	return nil
}

func (f *fakeInventory) ReleaseStock(ctx context.Context, productID int64, qty int) error {
	f.stock[productID] += qty
	return nil
}

type fakePayment struct {
	err  error
	last port.PaymentRequest
}

func (f *fakePayment) CreatePayment(ctx context.Context, req port.PaymentRequest) (*port.PaymentSession, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &port.PaymentSession{RedirectURL: "https://pay.example.cl/r/" + req.OrderID, Reference: "ref-1"}, nil
}

type recordingPublisher struct {
	events []domain.OrderEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	p.events = append(p.events, event)
	return nil
}

type undeterminedShipping struct{}

func (undeterminedShipping) Quote(ctx context.Context, region string, grams int64) (shippingdomain.Quote, error) {
	return shippingdomain.Quote{Region: region, WeightGrams: grams}, nil
}

type fixture struct {
	svc       *OrderApplicationService
	orders    *memoryOrders
	carts     *memoryCarts
	inventory *fakeInventory
	payment   *fakePayment
	events    *recordingPublisher
}

func newFixture(t *testing.T, shipping port.ShippingService) *fixture {
	tracer := noop.NewTracerProvider().Tracer("test")
	if shipping == nil {
		calc, err := shippingdomain.NewCalculator("Valparaíso", shippingdomain.DefaultCostTable())
		require.NoError(t, err)
		shipping = shippingapp.NewShippingService(calc, tracer)
	}
	f := &fixture{
		orders: &memoryOrders{},
		carts: &memoryCarts{carts: map[string]*cartdomain.Cart{
			testCartID: cartdomain.NewCart(testCartID,
				cartdomain.Line{ProductID: 1, Name: "Kit Ostra", Quantity: 2, UnitPriceCLP: 14990, UnitWeightGrams: 1200},
			),
		}},
		inventory: &fakeInventory{stock: map[int64]int{1: 5, 2: 0}},
		payment:   &fakePayment{},
		events:    &recordingPublisher{},
	}
	f.svc = NewOrderApplicationService(Dependencies{
		Repo:      f.orders,
		Carts:     f.carts,
		Shipping:  shipping,
		Inventory: f.inventory,
		Locker:    lock.NoopLocker{},
		Payment:   f.payment,
		Publisher: f.events,
		ReturnURL: "https://tienda.example.cl/pedido",
	}, tracer)
	return f
}

func checkoutRequest(region string) *CheckoutRequest {
	return &CheckoutRequest{
		CartID:   testCartID,
		Customer: CustomerInput{Name: "Ana Rojas", Email: "ana@example.cl"},
		Shipping: ShippingAddress{Region: region, Commune: "Talca", Address: "1 Sur 1234"},
	}
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.Checkout(context.Background(), checkoutRequest("Maule"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatePendingPayment, resp.Status)
	assert.Equal(t, int64(29980), resp.SubtotalCLP)
	assert.Equal(t, int64(5100), resp.ShippingCLP)
	assert.Equal(t, int64(35080), resp.TotalCLP)
	assert.Equal(t, "https://pay.example.cl/r/"+resp.OrderID, resp.PaymentURL)

	assert.Equal(t, int64(35080), f.payment.last.AmountCLP)
	assert.Equal(t, "Maule", f.payment.last.Shipping.Region)
	assert.Equal(t, "https://tienda.example.cl/pedido?order_id="+resp.OrderID, f.payment.last.ReturnURL)

	stored, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingPayment, stored.State)
	assert.Equal(t, "S", stored.Shipping.SizeClass)

	assert.Equal(t, 3, f.inventory.stock[1])
	assert.Equal(t, []string{testCartID}, f.carts.cleared)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventOrderPlaced, f.events.events[0].Type)
}

func TestCheckout_TransferWithoutReturnURL(t *testing.T) {
	f := newFixture(t, nil)
	f.svc = NewOrderApplicationService(Dependencies{
		Repo:      f.orders,
		Carts:     f.carts,
		Shipping:  f.svc.deps.Shipping,
		Inventory: f.inventory,
		Locker:    lock.NoopLocker{},
		Payment:   adapter.TransferPaymentGateway{OrderPageBase: "http://localhost:8080"},
		Publisher: f.events,
	}, noop.NewTracerProvider().Tracer("test"))

	resp, err := f.svc.Checkout(context.Background(), checkoutRequest("Maule"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatePendingPayment, resp.Status)
	assert.Equal(t, "http://localhost:8080/orders/"+resp.OrderID, resp.PaymentURL)
	assert.Equal(t, 3, f.inventory.stock[1])

	stored, err := f.orders.FindByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "transfer-"+resp.OrderID, stored.PaymentReference)
}

func TestCheckout_RejectsInvalidRequest(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Checkout(context.Background(), checkoutRequest("Maulé"))
	assert.ErrorIs(t, err, validation.ErrInvalidRequest)

	req := checkoutRequest("Maule")
	req.CartID = "not-a-uuid"
	_, err = f.svc.Checkout(context.Background(), req)
	assert.ErrorIs(t, err, validation.ErrInvalidRequest)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t, nil)
	delete(f.carts.carts, testCartID)

	_, err := f.svc.Checkout(context.Background(), checkoutRequest("Maule"))
	assert.ErrorIs(t, err, cartdomain.ErrEmptyCart)
}

func TestCheckout_UndeterminedShipping(t *testing.T) {
	f := newFixture(t, undeterminedShipping{})

	_, err := f.svc.Checkout(context.Background(), checkoutRequest("Magallanes"))
	assert.ErrorIs(t, err, domain.ErrShippingUndetermined)
	assert.Equal(t, 5, f.inventory.stock[1])
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.carts.cleared)
}

func TestCheckout_InsufficientStockReleasesEarlierLines(t *testing.T) {
	f := newFixture(t, nil)
	cart := f.carts.carts[testCartID]
	require.NoError(t, cart.Add(cartdomain.Line{ProductID: 2, Name: "Kit Shiitake", Quantity: 1, UnitPriceCLP: 17990, UnitWeightGrams: 1600}))

	_, err := f.svc.Checkout(context.Background(), checkoutRequest("Maule"))
	assert.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	assert.Equal(t, 5, f.inventory.stock[1])
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_PaymentFailureMarksOrderFailed(t *testing.T) {
	f := newFixture(t, nil)
	f.payment.err = errors.New("gateway down")

	_, err := f.svc.Checkout(context.Background(), checkoutRequest("Maule"))
	require.Error(t, err)

	assert.Equal(t, 5, f.inventory.stock[1])
	require.Len(t, f.orders.orders, 1)
	for _, o := range f.orders.orders {
		assert.Equal(t, domain.StateFailed, o.State)
		assert.Contains(t, o.FailureReason, "gateway down")
	}
	assert.Empty(t, f.events.events)
	assert.Empty(t, f.carts.cleared)
}

func TestConfirmPaymentAndCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	resp, err := f.svc.Checkout(ctx, checkoutRequest("Maule"))
	require.NoError(t, err)

	paid, err := f.svc.ConfirmPayment(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePaid, paid.Status)
	assert.Equal(t, domain.EventOrderPaid, f.events.events[len(f.events.events)-1].Type)

	_, err = f.svc.Cancel(ctx, resp.OrderID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	f.carts.carts[testCartID] = cartdomain.NewCart(testCartID,
		cartdomain.Line{ProductID: 1, Name: "Kit Ostra", Quantity: 1, UnitPriceCLP: 14990, UnitWeightGrams: 1200})
	second, err := f.svc.Checkout(ctx, checkoutRequest("Metropolitana"))
	require.NoError(t, err)
	assert.Equal(t, 2, f.inventory.stock[1])

	cancelled, err := f.svc.Cancel(ctx, second.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCancelled, cancelled.Status)
	assert.Equal(t, 3, f.inventory.stock[1])

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	recent, err := f.svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
