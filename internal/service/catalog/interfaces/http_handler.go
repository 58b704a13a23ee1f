// internal/service/catalog/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/catalog/application"
	"mycelium/internal/service/catalog/domain"
)

// CatalogHandler 封装了商品相关的 HTTP 处理器
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterStoreRoutes 注册商店前台路由
func (h *CatalogHandler) RegisterStoreRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.handleListActive)
	mux.HandleFunc("GET /products/{slug}", h.handleGetKit)
}

// RegisterPanelRoutes 注册生产面板路由
func (h *CatalogHandler) RegisterPanelRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /panel/products", h.handleListAll)
	mux.HandleFunc("POST /panel/products", h.handleCreate)
	mux.HandleFunc("PUT /panel/products/{id}", h.handleUpdate)
	mux.HandleFunc("POST /panel/products/{id}/active", h.handleSetActive)
	mux.HandleFunc("GET /panel/products/{id}/kit-settings", h.handleGetKitSettings)
	mux.HandleFunc("PUT /panel/products/{id}/kit-settings", h.handleSaveKitSettings)
}

func (h *CatalogHandler) handleListActive(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) handleGetKit(w http.ResponseWriter, r *http.Request) {
	kit, err := h.service.GetKit(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (h *CatalogHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req application.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *CatalogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req application.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.SetActive(r.Context(), id, body.Active); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) handleGetKitSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetKitSettings(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CatalogHandler) handleSaveKitSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req application.KitSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.SaveKitSettings(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrKitSettingsNotFound):
		status = http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidProduct):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock):
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
