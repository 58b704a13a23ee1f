package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/validation"
	cartdomain "mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/order/application"
	"mycelium/internal/service/order/domain"
)

// OrderHandler 封装了订单相关的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderApplicationService
}

func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 注册商店的结账与订单路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /checkout", h.handleCheckout)
	mux.HandleFunc("GET /orders/{id}", h.handleGet)
	mux.HandleFunc("POST /orders/{id}/cancel", h.handleCancel)
	mux.HandleFunc("POST /payments/callback", h.handlePaymentCallback)
}

// RegisterPanelRoutes 注册生产面板使用的订单路由
func (h *OrderHandler) RegisterPanelRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /panel/orders", h.handleListRecent)
	mux.HandleFunc("GET /panel/orders/{id}", h.handleGet)
	mux.HandleFunc("POST /panel/orders/{id}/cancel", h.handleCancel)
	// 银行转账到账后手动确认
	mux.HandleFunc("POST /panel/orders/{id}/paid", h.handleMarkPaid)
}

func (h *OrderHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Bool("feature_flag.stock_lock", bootstrap.GetCurrentConfig().App.FeatureFlags.EnableStockLock),
	)

	var req application.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resp, err := h.service.Checkout(ctx, &req)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("cart_id", req.CartID).Msg("checkout rejected")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ConfirmPayment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handlePaymentCallback 接收支付网关的结果通知
func (h *OrderHandler) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OrderID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		view *application.OrderView
		err  error
	)
	switch body.Status {
	case "paid":
		view, err = h.service.ConfirmPayment(r.Context(), body.OrderID)
	case "rejected", "cancelled":
		view, err = h.service.Cancel(r.Context(), body.OrderID)
	default:
		http.Error(w, "unknown payment status", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	views, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidRequest), errors.Is(err, cartdomain.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrShippingUndetermined):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, catalogdomain.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, lock.ErrLockTimeout):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
