package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lumina-edu/backend/internal/gamification"
	"github.com/lumina-edu/backend/internal/generator"
	"github.com/lumina-edu/backend/internal/models"
)

type Service struct {
	store        *Store
	gamification *gamification.Service
	generator    *generator.Generator
}

func NewService(store *Store, gam *gamification.Service, gen *generator.Generator) *Service {
	return &Service{store: store, gamification: gam, generator: gen}
}

// ── Authoring ───────────────────────────────────────────

func (s *Service) CreateQuiz(teacherID int64, req models.CreateQuizRequest) (*models.Quiz, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("quiz title is required")
	}
	if req.ClassID == 0 {
		return nil, fmt.Errorf("class_id is required")
	}
	owns, err := s.store.IsClassTeacher(req.ClassID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("only the class teacher can create quizzes")
	}

	if req.PassingScore <= 0 {
		req.PassingScore = 60
	}
	if req.TimeLimitMinutes <= 0 {
		req.TimeLimitMinutes = 30
	}

	for i, q := range req.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d: text is required", i+1)
		}
		if q.Points <= 0 {
			req.Questions[i].Points = 20
		}
		if req.Questions[i].QuestionOrder == 0 {
			req.Questions[i].QuestionOrder = i + 1
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return nil, fmt.Errorf("question %d: exactly one option must be correct", i+1)
		}
	}

	return s.store.CreateQuiz(req, teacherID)
}

func (s *Service) PublishQuiz(quizID, teacherID int64, published bool) error {
	return s.store.PublishQuiz(quizID, teacherID, published)
}

// ── Taking ──────────────────────────────────────────────

func (s *Service) ListQuizzes(classID, userID int64, role string) ([]models.Quiz, error) {
	if role == models.RoleTeacher {
		owns, err := s.store.IsClassTeacher(classID, userID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, fmt.Errorf("not the teacher of this class")
		}
		return s.store.ListQuizzes(classID, false)
	}

	enrolled, err := s.store.IsEnrolled(classID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("not enrolled in this class")
	}
	return s.store.ListQuizzes(classID, true)
}

// GetQuizWithQuestions loads a quiz for display. Students only see published
// quizzes and never see which option is correct.
func (s *Service) GetQuizWithQuestions(quizID, userID int64, role string) (*models.Quiz, []models.QuizQuestion, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("quiz not found")
		}
		return nil, nil, err
	}

	isOwner := role == models.RoleTeacher && quiz.TeacherID == userID
	if !isOwner {
		enrolled, err := s.store.IsEnrolled(quiz.ClassID, userID)
		if err != nil {
			return nil, nil, err
		}
		if !enrolled {
			return nil, nil, fmt.Errorf("not enrolled in this class")
		}
		if !quiz.IsPublished {
			return nil, nil, fmt.Errorf("quiz not found")
		}
	}

	questions, err := s.store.GetQuestions(quizID, isOwner)
	if err != nil {
		return nil, nil, err
	}
	return quiz, questions, nil
}

func (s *Service) StartAttempt(quizID, studentID int64) (*models.QuizAttempt, error) {
	quiz, err := s.store.GetQuiz(quizID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("quiz not found")
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, fmt.Errorf("quiz is not published")
	}

	enrolled, err := s.store.IsEnrolled(quiz.ClassID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, fmt.Errorf("not enrolled in this class")
	}

	return s.store.StartAttempt(quizID, studentID)
}

// SubmitAttempt scores the attempt against the stored correct options. The
// client never supplies a score. A perfect score earns the higher XP award,
// and the reward pipeline failing does not undo the stored attempt.
func (s *Service) SubmitAttempt(attemptID, studentID int64, req models.SubmitAttemptRequest) (*models.SubmitAttemptResponse, error) {
	attempt, err := s.store.GetAttempt(attemptID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("attempt not found")
		}
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, fmt.Errorf("attempt belongs to another student")
	}
	if attempt.CompletedAt != nil {
		return nil, fmt.Errorf("attempt already submitted")
	}

	quiz, err := s.store.GetQuiz(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	correct, points, err := s.store.CorrectOptions(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	if len(correct) == 0 {
		return nil, fmt.Errorf("quiz has no questions")
	}

	score, totalPoints := scoreAnswers(correct, points, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	updated, err := s.store.CompleteAttempt(attemptID, answersJSON, score, totalPoints)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("attempt already submitted")
	}

	perfect := score == totalPoints
	percent := 0
	if totalPoints > 0 {
		percent = score * 100 / totalPoints
	}

	resp := &models.SubmitAttemptResponse{
		Score:       score,
		TotalPoints: totalPoints,
		Passed:      percent >= quiz.PassingScore,
		Perfect:     perfect,
	}

	activity := models.ActivityQuizCompleted
	if perfect {
		activity = models.ActivityQuizPerfect
	}
	reward, err := s.gamification.RecordActivity(studentID, activity, map[string]interface{}{
		"quiz_id":    quiz.ID,
		"quiz_title": quiz.Title,
		"score":      score,
		"total":      totalPoints,
	})
	if err != nil {
		log.Printf("[quizzes] attempt reward failed for user %d: %v", studentID, err)
	} else {
		resp.Reward = reward
	}

	if refreshed, err := s.store.GetAttempt(attemptID); err == nil {
		resp.Attempt = *refreshed
	} else {
		resp.Attempt = *attempt
	}
	return resp, nil
}

func (s *Service) ListAttempts(quizID, studentID int64) ([]models.QuizAttempt, error) {
	return s.store.ListAttempts(quizID, studentID)
}

// ── AI generation ───────────────────────────────────────

// gatherMaterials widens the window until it finds something: last week,
// then two weeks, then the five most recent materials.
func (s *Service) gatherMaterials(classID int64) ([]models.Material, string, error) {
	now := time.Now()

	materials, err := s.store.MaterialsSince(classID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, "", err
	}
	if len(materials) > 0 {
		return materials, "última semana", nil
	}

	materials, err = s.store.MaterialsSince(classID, now.AddDate(0, 0, -14))
	if err != nil {
		return nil, "", err
	}
	if len(materials) > 0 {
		return materials, "últimas 2 semanas", nil
	}

	materials, err = s.store.LatestMaterials(classID, 5)
	if err != nil {
		return nil, "", err
	}
	if len(materials) > 0 {
		return materials, "materiais mais recentes", nil
	}
	return nil, "", fmt.Errorf("no materials found for this class; publish materials before generating quizzes")
}

// GenerateQuiz builds a weekly quiz from class materials using the LLM and
// publishes it to the class.
func (s *Service) GenerateQuiz(ctx context.Context, classID, teacherID int64) (*models.GenerateQuizResponse, error) {
	owns, err := s.store.IsClassTeacher(classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("only the class teacher can generate quizzes")
	}
	return s.generateForClass(ctx, classID, teacherID)
}

func (s *Service) generateForClass(ctx context.Context, classID, teacherID int64) (*models.GenerateQuizResponse, error) {
	materials, periodUsed, err := s.gatherMaterials(classID)
	if err != nil {
		return nil, err
	}

	className, err := s.store.ClassName(classID)
	if err != nil {
		return nil, fmt.Errorf("load class: %w", err)
	}

	log.Printf("[quizzes] generating quiz for class %d from %d materials (%s)", classID, len(materials), periodUsed)

	gen, _, err := s.generator.GenerateQuiz(ctx, className, periodUsed, materials)
	if err != nil {
		return nil, err
	}

	quizID, err := s.store.CreateGeneratedQuiz(classID, teacherID, gen)
	if err != nil {
		return nil, err
	}

	return &models.GenerateQuizResponse{
		QuizID:         quizID,
		QuizTitle:      gen.QuizTitle,
		QuestionsCount: len(gen.Questions),
		MaterialsUsed:  len(materials),
		PeriodUsed:     periodUsed,
	}, nil
}

// ── Schedules ───────────────────────────────────────────

func (s *Service) SetSchedule(teacherID int64, req models.UpdateScheduleRequest) (*models.AutoQuizSchedule, error) {
	owns, err := s.store.IsClassTeacher(req.ClassID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("only the class teacher can manage the schedule")
	}
	return s.store.UpsertSchedule(req.ClassID, req.Enabled)
}

func (s *Service) GetSchedule(classID, teacherID int64) (*models.AutoQuizSchedule, error) {
	owns, err := s.store.IsClassTeacher(classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, fmt.Errorf("only the class teacher can view the schedule")
	}
	sched, err := s.store.GetSchedule(classID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no schedule for this class")
	}
	return sched, err
}
