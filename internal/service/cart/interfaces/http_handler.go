// internal/service/cart/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/cart/application"
	"mycelium/internal/service/cart/domain"
	catalogdomain "mycelium/internal/service/catalog/domain"
)

// CartHandler 封装了购物车的 HTTP 处理器，购物车 ID 由 POST /cart 发放
type CartHandler struct {
	service *application.CartService
}

func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /cart", h.handleNewCart)
	mux.HandleFunc("GET /cart/{cartID}", h.handleGet)
	mux.HandleFunc("DELETE /cart/{cartID}", h.handleClear)
	mux.HandleFunc("POST /cart/{cartID}/items", h.handleAddItem)
	mux.HandleFunc("PUT /cart/{cartID}/items/{productID}", h.handleSetQuantity)
	mux.HandleFunc("DELETE /cart/{cartID}/items/{productID}", h.handleRemoveItem)
	mux.HandleFunc("GET /cart/{cartID}/quote", h.handleQuote)
}

func (h *CartHandler) handleNewCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"id": uuid.NewString()})
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), cartID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	if err := h.service.Clear(r.Context(), cartID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	var req application.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.AddItem(r.Context(), cartID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req application.SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.SetQuantity(r.Context(), cartID, productID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	view, err := h.service.RemoveItem(r.Context(), cartID, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleQuote 结账页的金额拆分：GET /cart/{cartID}/quote?region=Maule
func (h *CartHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFrom(w, r)
	if !ok {
		return
	}
	quote, err := h.service.Quote(r.Context(), cartID, r.URL.Query().Get("region"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func cartIDFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("cartID"))
	if err != nil {
		http.Error(w, "invalid cart id", http.StatusBadRequest)
		return "", false
	}
	return id.String(), true
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound), errors.Is(err, domain.ErrLineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, catalogdomain.ErrInsufficientStock), errors.Is(err, catalogdomain.ErrProductInactive):
		status = http.StatusConflict
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
