package assistant

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/lumina-edu/backend/internal/generator"
	"github.com/lumina-edu/backend/internal/models"
)

// maxMessages caps how much conversation history a single request may carry.
const maxMessages = 40

type Handler struct {
	generator *generator.Generator
}

func NewHandler(gen *generator.Generator) *Handler {
	return &Handler{generator: gen}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/assistant/chat", h.Chat).Methods("POST")
}

// Chat answers one assistant turn. The persona depends on the caller's role:
// teachers get a lesson-planning assistant, students a study tutor.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	_, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	role, _ := r.Context().Value("role").(string)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "messages is required"})
		return
	}
	if len(req.Messages) > maxMessages {
		req.Messages = req.Messages[len(req.Messages)-maxMessages:]
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" || strings.TrimSpace(last.Content) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "last message must be a non-empty user message"})
		return
	}

	reply, err := h.generator.Chat(r.Context(), role, req.Messages)
	if err != nil {
		log.Printf("[assistant] chat failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Assistant is unavailable, try again later"})
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[assistant] failed to encode response: %v", err)
	}
}
