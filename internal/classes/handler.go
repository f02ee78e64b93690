package classes

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

// RegisterRoutes mounts class routes on the authenticated subrouter and
// teacher-only routes on the teacher subrouter.
func (h *Handler) RegisterRoutes(protected, teacherOnly *mux.Router) {
	protected.HandleFunc("/classes", h.ListClasses).Methods("GET")
	protected.HandleFunc("/classes/{id}", h.GetClass).Methods("GET")
	protected.HandleFunc("/classes/enroll", h.Enroll).Methods("POST")
	protected.HandleFunc("/classes/{id}/materials", h.ListMaterials).Methods("GET")
	protected.HandleFunc("/materials/{id}/read", h.MarkMaterialRead).Methods("POST")
	protected.HandleFunc("/events", h.ListEvents).Methods("GET")

	teacherOnly.HandleFunc("/classes", h.CreateClass).Methods("POST")
	teacherOnly.HandleFunc("/materials", h.CreateMaterial).Methods("POST")
	teacherOnly.HandleFunc("/events", h.CreateEvent).Methods("POST")
	teacherOnly.HandleFunc("/events/{id}", h.UpdateEvent).Methods("PUT")
	teacherOnly.HandleFunc("/events/{id}", h.DeleteEvent).Methods("DELETE")
}

func (h *Handler) CreateClass(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	class, err := h.service.CreateClass(userID, req)
	if err != nil {
		log.Printf("[classes] create class failed: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, class)
}

func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
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

	class, err := h.service.GetClass(classID, userID, getRole(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Class not found"})
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	classes, err := h.service.ListClasses(userID, getRole(r))
	if err != nil {
		log.Printf("[classes] list classes failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list classes"})
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Enroll(userID, req.Code)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	material, err := h.service.CreateMaterial(userID, req)
	if err != nil {
		log.Printf("[classes] create material failed: %v", err)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, material)
}

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
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

	materials, err := h.service.ListMaterials(classID, userID, getRole(r))
	if err != nil {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (h *Handler) MarkMaterialRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	materialID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid material ID"})
		return
	}

	resp, err := h.service.MarkMaterialRead(userID, materialID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	event, err := h.service.CreateEvent(userID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	events, err := h.service.ListEvents(userID, getRole(r))
	if err != nil {
		log.Printf("[classes] list events failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list events"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	eventID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	event, err := h.service.UpdateEvent(eventID, userID, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}
	eventID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	if err := h.service.DeleteEvent(eventID, userID); err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
		log.Printf("[classes] failed to encode response: %v", err)
	}
}
