package classes

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/lumina-edu/backend/internal/gamification"
	"github.com/lumina-edu/backend/internal/models"
)

// codeAlphabet excludes ambiguous characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 6

type Service struct {
	store        *Store
	gamification *gamification.Service
}

func NewService(store *Store, gam *gamification.Service) *Service {
	return &Service{store: store, gamification: gam}
}

// generateClassCode produces a random join code. Collisions are retried a few
// times before giving up; the UNIQUE constraint on classes.code is the final
// arbiter.
func generateClassCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate class code: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

func (s *Service) CreateClass(teacherID int64, req models.CreateClassRequest) (*models.Class, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("class name is required")
	}

	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateClassCode()
		if err != nil {
			return nil, err
		}
		class, err := s.store.CreateClass(teacherID, req.Name, req.Description, code)
		if err != nil {
			if strings.Contains(err.Error(), "classes_code_key") {
				continue
			}
			return nil, err
		}
		return class, nil
	}
	return nil, fmt.Errorf("could not generate a unique class code")
}

func (s *Service) GetClass(classID, userID int64, role string) (*models.Class, error) {
	class, err := s.store.GetClass(classID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeClassAccess(class, userID, role); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *Service) ListClasses(userID int64, role string) ([]models.Class, error) {
	return s.store.ListClassesForUser(userID, role)
}

// Enroll joins a student to a class by its code. Enrollment grants XP and can
// unlock badges and advance missions; reward delivery failures do not roll
// back the enrollment itself.
func (s *Service) Enroll(studentID int64, code string) (*models.EnrollResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("class code is required")
	}

	class, err := s.store.GetClassByCode(code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no class found with code %s", code)
		}
		return nil, err
	}
	if class.TeacherID == studentID {
		return nil, fmt.Errorf("teachers cannot enroll in their own class")
	}

	enrolled, err := s.store.IsEnrolled(class.ID, studentID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, fmt.Errorf("already enrolled in this class")
	}

	enrollment, err := s.store.Enroll(class.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	resp := &models.EnrollResponse{Enrollment: *enrollment, Class: *class}

	reward, err := s.gamification.RecordActivity(studentID, models.ActivityEnrolled, map[string]interface{}{
		"class_id":   class.ID,
		"class_name": class.Name,
	})
	if err != nil {
		log.Printf("[classes] enrollment reward failed for user %d: %v", studentID, err)
	} else {
		resp.Reward = reward
	}
	return resp, nil
}

// ── Materials ───────────────────────────────────────────

func (s *Service) CreateMaterial(teacherID int64, req models.CreateMaterialRequest) (*models.Material, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("material title is required")
	}
	if req.ClassID == 0 {
		return nil, fmt.Errorf("class_id is required")
	}
	owns, err := s.store.IsClassTeacher(req.ClassID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("only the class teacher can publish materials")
	}
	return s.store.CreateMaterial(req, teacherID)
}

func (s *Service) ListMaterials(classID, userID int64, role string) ([]models.Material, error) {
	class, err := s.store.GetClass(classID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeClassAccess(class, userID, role); err != nil {
		return nil, err
	}
	return s.store.ListMaterials(classID, userID)
}

// MarkMaterialRead is idempotent: the first read grants XP, repeats report
// already_read and grant nothing.
func (s *Service) MarkMaterialRead(userID, materialID int64) (*models.MarkReadResponse, error) {
	material, err := s.store.GetMaterial(materialID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("material not found")
		}
		return nil, err
	}

	enrolled, err := s.store.IsEnrolled(material.ClassID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("not enrolled in this class")
	}

	inserted, err := s.store.MarkMaterialRead(userID, materialID)
	if err != nil {
		return nil, fmt.Errorf("mark material read: %w", err)
	}

	resp := &models.MarkReadResponse{MaterialID: materialID, AlreadyRead: !inserted}
	if !inserted {
		return resp, nil
	}

	reward, err := s.gamification.RecordActivity(userID, models.ActivityMaterialRead, map[string]interface{}{
		"material_id":    materialID,
		"material_title": material.Title,
		"class_id":       material.ClassID,
	})
	if err != nil {
		log.Printf("[classes] material read reward failed for user %d: %v", userID, err)
	} else {
		resp.Reward = reward
	}
	return resp, nil
}

// ── Calendar Events ─────────────────────────────────────

func (s *Service) CreateEvent(teacherID int64, req models.CreateEventRequest) (*models.CalendarEvent, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("event cannot end before it starts")
	}
	if req.ClassID != nil {
		owns, err := s.store.IsClassTeacher(*req.ClassID, teacherID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("only the class teacher can create events for the class")
		}
	}
	return s.store.CreateEvent(req, teacherID)
}

func (s *Service) ListEvents(userID int64, role string) ([]models.CalendarEvent, error) {
	return s.store.ListEventsForUser(userID, role)
}

func (s *Service) UpdateEvent(eventID, teacherID int64, req models.CreateEventRequest) (*models.CalendarEvent, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("event cannot end before it starts")
	}
	return s.store.UpdateEvent(eventID, teacherID, req)
}

func (s *Service) DeleteEvent(eventID, teacherID int64) error {
	return s.store.DeleteEvent(eventID, teacherID)
}

func (s *Service) authorizeClassAccess(class *models.Class, userID int64, role string) error {
	if role == models.RoleTeacher {
		if class.TeacherID != userID {
			return fmt.Errorf("not the teacher of this class")
		}
		return nil
	}
	enrolled, err := s.store.IsEnrolled(class.ID, userID)
	if err != nil {
		return err
	}
	if !enrolled {
		return fmt.Errorf("not enrolled in this class")
	}
	return nil
}
