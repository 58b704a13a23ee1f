// internal/service/production/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"mycelium/internal/pkg/validation"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/production/application"
	"mycelium/internal/service/production/domain"
)

// ProductionHandler 封装了生产面板的 HTTP 处理器
type ProductionHandler struct {
	service *application.ProductionService
}

func NewProductionHandler(service *application.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

func (h *ProductionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /panel/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /panel/batches", h.handleListBatches)
	mux.HandleFunc("POST /panel/batches", h.handleCreateBatch)
	mux.HandleFunc("GET /panel/batches/{id}", h.handleGetBatch)
	mux.HandleFunc("POST /panel/batches/{id}/status", h.handleUpdateStatus)
	mux.HandleFunc("POST /panel/labels", h.handleLabels)
	mux.HandleFunc("GET /panel/formulations", h.handleListFormulations)
	mux.HandleFunc("POST /panel/formulations", h.handleCreateFormulation)
	mux.HandleFunc("GET /panel/formulations/{id}/calculate", h.handleCalculate)
	// 标签二维码指向这里
	mux.HandleFunc("GET /scan/{code}", h.handleScan)
}

func (h *ProductionHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProductionHandler) handleListBatches(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	batches, err := h.service.ListBatches(r.Context(), r.URL.Query().Get("status"), int(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (h *ProductionHandler) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req application.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.CreateBatch(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *ProductionHandler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	view, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProductionHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req application.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProductionHandler) handleLabels(w http.ResponseWriter, r *http.Request) {
	var req application.LabelsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	labels, err := h.service.Labels(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (h *ProductionHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Scan(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProductionHandler) handleListFormulations(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListFormulations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ProductionHandler) handleCreateFormulation(w http.ResponseWriter, r *http.Request) {
	var req application.FormulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	view, err := h.service.CreateFormulation(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *ProductionHandler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dry, err := queryInt(r, "dryGrams", 0)
	if err != nil || dry <= 0 {
		http.Error(w, "dryGrams must be a positive integer", http.StatusBadRequest)
		return
	}
	res, err := h.service.CalculateFormulation(r.Context(), id, dry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrBatchNotFound),
		errors.Is(err, domain.ErrFormulationNotFound),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, validation.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidBatch),
		errors.Is(err, domain.ErrInvalidFormulation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition):
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
