// internal/service/shipping/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"mycelium/internal/service/shipping/application"
)

// ShippingHandler 封装了 shipping 服务的 HTTP 处理器
type ShippingHandler struct {
	service *application.ShippingService
}

func NewShippingHandler(service *application.ShippingService) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ShippingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /get_quote", h.handleGetQuote)
	mux.HandleFunc("GET /regions", h.handleRegions)
}

func (h *ShippingHandler) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	grams, err := strconv.ParseInt(r.URL.Query().Get("weight_grams"), 10, 64)
	if err != nil {
		http.Error(w, "weight_grams must be an integer", http.StatusBadRequest)
		return
	}

	quote, err := h.service.Quote(r.Context(), region, grams)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, application.ErrInvalidWeight) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *ShippingHandler) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"origin":  h.service.Origin(),
		"regions": h.service.Regions(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
