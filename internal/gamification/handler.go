package gamification

import (
	"encoding/json"
	"net/http"
	"net/url"
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

// RegisterRoutes registers gamification endpoints on the protected subrouter.
func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/gamification", h.GetGamification).Methods("GET")
	protected.HandleFunc("/gamification/daily-login", h.DailyLogin).Methods("POST")
	protected.HandleFunc("/gamification/badges/check", h.CheckBadges).Methods("POST")
	protected.HandleFunc("/gamification/leaderboard", h.Leaderboard).Methods("GET")
	protected.HandleFunc("/missions", h.GetMissions).Methods("GET")
	protected.HandleFunc("/missions/assign/daily", h.AssignDaily).Methods("POST")
	protected.HandleFunc("/missions/assign/weekly", h.AssignWeekly).Methods("POST")
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) GetGamification(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetGamification(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get gamification state"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DailyLogin records today's login activity. Responds with the reward the
// first time each day and already_recorded afterwards.
func (h *Handler) DailyLogin(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	result, err := h.service.RecordDailyLogin(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record login"})
		return
	}
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"already_recorded": true})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CheckBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	badges, err := h.service.CheckAndUnlockBadges(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to check badges"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"new_badges": badges})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 10)

	resp, err := h.service.GetLeaderboard(userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetMissions(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get missions"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AssignDaily(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	assigned, err := h.service.AssignDailyMissions(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to assign missions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"assigned": assigned})
}

func (h *Handler) AssignWeekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	assigned, err := h.service.AssignWeeklyMissions(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to assign missions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"assigned": assigned})
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
