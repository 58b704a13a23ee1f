// internal/service/assistant/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/assistant/application"
	"mycelium/internal/service/assistant/domain"
)

// AssistantHandler 暴露 AI 流程
type AssistantHandler struct {
	service *application.AssistantService
}

func NewAssistantHandler(service *application.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /ai/batches/summary", h.handleSummarize)
	mux.HandleFunc("POST /ai/formulations/suggest", h.handleSuggestFormulation)
	mux.HandleFunc("POST /ai/diagnose", h.handleDiagnose)
	mux.HandleFunc("POST /ai/chat", h.handleChat)
	mux.HandleFunc("POST /ai/speech", h.handleSpeech)
	mux.HandleFunc("POST /ai/images", h.handleImage)
}

func (h *AssistantHandler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req application.SummarizeBatchesRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.SummarizeBatches(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AssistantHandler) handleSuggestFormulation(w http.ResponseWriter, r *http.Request) {
	var req application.SuggestFormulationRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.SuggestFormulation(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AssistantHandler) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	var req application.DiagnoseRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.DiagnoseContamination(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AssistantHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req application.ChatRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.service.Chat(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AssistantHandler) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req application.SpeechRequest
	if !decode(w, r, &req) {
		return
	}
	wav, err := h.service.TextToSpeech(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Write(wav)
}

func (h *AssistantHandler) handleImage(w http.ResponseWriter, r *http.Request) {
	var req application.ImageRequest
	if !decode(w, r, &req) {
		return
	}
	png, err := h.service.GenerateImage(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	// 图片以 base64 传输，放宽到 8MB
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, validation.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyResponse), errors.Is(err, domain.ErrInvalidResponse):
		status = http.StatusBadGateway
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
