package quizzes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lumina-edu/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected, teacherOnly *mux.Router) {
	protected.HandleFunc("/classes/{id}/quizzes", h.ListQuizzes).Methods("GET")
	protected.HandleFunc("/quizzes/{id}", h.GetQuiz).Methods("GET")
	protected.HandleFunc("/quizzes/{id}/attempts", h.StartAttempt).Methods("POST")
	protected.HandleFunc("/quizzes/{id}/attempts", h.ListAttempts).Methods("GET")
	protected.HandleFunc("/attempts/{id}/submit", h.SubmitAttempt).Methods("POST")

	teacherOnly.HandleFunc("/quizzes", h.CreateQuiz).Methods("POST")
	teacherOnly.HandleFunc("/quizzes/{id}/publish", h.PublishQuiz).Methods("POST")
	teacherOnly.HandleFunc("/quizzes/generate", h.GenerateQuiz).Methods("POST")
	teacherOnly.HandleFunc("/classes/{id}/schedule", h.GetSchedule).Methods("GET")
	teacherOnly.HandleFunc("/schedule", h.SetSchedule).Methods("PUT")
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	quiz, err := h.service.CreateQuiz(userID, req)
	if err != nil {
		log.Printf("[quizzes] create quiz failed: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) PublishQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid quiz ID"})
		return
	}

	var body struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.PublishQuiz(quizID, userID, body.Published); err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"published": body.Published})
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	classID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	quizzes, err := h.service.ListQuizzes(classID, userID, getRole(r))
	if err != nil {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid quiz ID"})
		return
	}

	quiz, questions, err := h.service.GetQuizWithQuestions(quizID, userID, getRole(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *Handler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid quiz ID"})
		return
	}

	attempt, err := h.service.StartAttempt(quizID, userID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	attemptID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid attempt ID"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.SubmitAttempt(attemptID, userID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid quiz ID"})
		return
	}

	attempts, err := h.service.ListAttempts(quizID, userID)
	if err != nil {
		log.Printf("[quizzes] list attempts failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list attempts"})
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ClassID == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "class_id is required"})
		return
	}

	resp, err := h.service.GenerateQuiz(r.Context(), req.ClassID, userID)
	if err != nil {
		log.Printf("[quizzes] generate quiz failed for class %d: %v", req.ClassID, err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sched, err := h.service.SetSchedule(userID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	classID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	sched, err := h.service.GetSchedule(classID, userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func getUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value("user_id").(int64)
	return userID, ok
}

func getRole(r *http.Request) string {
	role, _ := r.Context().Value("role").(string)
	return role
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[quizzes] failed to encode response: %v", err)
	}
}
