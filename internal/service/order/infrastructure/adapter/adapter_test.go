package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/httpclient"
	"mycelium/internal/service/order/domain"
	"mycelium/internal/service/order/port"
	shippingdomain "mycelium/internal/service/shipping/domain"
)

func newHTTPClient() *httpclient.Client {
	return httpclient.NewClient(noop.NewTracerProvider().Tracer("test"))
}

func TestPaymentHTTPAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req port.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(35080), req.AmountCLP)
		assert.Equal(t, "Maule", req.Shipping.Region)
		assert.Equal(t, int64(5100), req.Shipping.CostCLP)
		json.NewEncoder(w).Encode(port.PaymentSession{RedirectURL: "https://pay.example.cl/r/" + req.OrderID, Reference: "tx-9"})
	}))
	defer srv.Close()

	a := NewPaymentHTTPAdapter(newHTTPClient(), srv.URL, time.Second)
	session, err := a.CreatePayment(context.Background(), port.PaymentRequest{
		OrderID:   "o-1",
		AmountCLP: 35080,
		Currency:  "CLP",
		Shipping:  domain.ShippingDetails{Region: "Maule", CostCLP: 5100},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.cl/r/o-1", session.RedirectURL)
	assert.Equal(t, "tx-9", session.Reference)
}

func TestPaymentHTTPAdapter_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "declined", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	a := NewPaymentHTTPAdapter(newHTTPClient(), srv.URL, 0)
	_, err := a.CreatePayment(context.Background(), port.PaymentRequest{OrderID: "o-1"})

	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
}

func TestShippingHTTPAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get_quote", r.URL.Path)
		assert.Equal(t, "Aysén", r.URL.Query().Get("region"))
		assert.Equal(t, "6000", r.URL.Query().Get("weight_grams"))
		json.NewEncoder(w).Encode(shippingdomain.Quote{
			Region: "Aysén", Zone: shippingdomain.ZoneExtremo, SizeClass: shippingdomain.SizeL,
			WeightGrams: 6000, Cost: 17000, Determined: true,
		})
	}))
	defer srv.Close()

	q, err := NewShippingHTTPAdapter(newHTTPClient(), srv.URL).Quote(context.Background(), "Aysén", 6000)
	require.NoError(t, err)
	assert.Equal(t, int64(17000), q.Cost)
	assert.True(t, q.Determined)
}

type capturingWriter struct {
	msgs []kafka.Message
}

func (w *capturingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestEventKafkaAdapter(t *testing.T) {
	w := &capturingWriter{}
	a := NewEventKafkaAdapter(w)

	err := a.Publish(context.Background(), domain.OrderEvent{Type: domain.EventOrderPaid, OrderID: "o-7", TotalCLP: 20000})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-7", string(w.msgs[0].Key))

	var got domain.OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, domain.EventOrderPaid, got.Type)

	var typeHeader string
	for _, h := range w.msgs[0].Headers {
		if h.Key == "event-type" {
			typeHeader = string(h.Value)
		}
	}
	assert.Equal(t, "OrderPaid", typeHeader)
}

func TestTransferPaymentGateway(t *testing.T) {
	session, err := TransferPaymentGateway{}.CreatePayment(context.Background(), port.PaymentRequest{
		OrderID:   "o-7",
		ReturnURL: "https://mycelium.cl/gracias?order_id=o-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "transfer-o-7", session.Reference)
	assert.Equal(t, "https://mycelium.cl/gracias?order_id=o-7", session.RedirectURL)
}

func TestTransferPaymentGateway_FallsBackToOrderPage(t *testing.T) {
	gw := TransferPaymentGateway{OrderPageBase: "http://localhost:8080/"}
	session, err := gw.CreatePayment(context.Background(), port.PaymentRequest{OrderID: "o-8"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/orders/o-8", session.RedirectURL)
	assert.Equal(t, "transfer-o-8", session.Reference)

	_, err = TransferPaymentGateway{}.CreatePayment(context.Background(), port.PaymentRequest{OrderID: "o-9"})
	assert.Error(t, err)
}
