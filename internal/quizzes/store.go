package quizzes

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumina-edu/backend/internal/generator"
	"github.com/lumina-edu/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Quizzes ─────────────────────────────────────────────

// CreateQuiz inserts the quiz with its questions and options in a single
// transaction; a malformed question aborts the whole insert.
func (s *Store) CreateQuiz(req models.CreateQuizRequest, teacherID int64) (*models.Quiz, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create quiz: %w", err)
	}
	defer tx.Rollback()

	var q models.Quiz
	var desc sql.NullString
	err = tx.QueryRow(
		`INSERT INTO quizzes (class_id, teacher_id, title, description, is_published, passing_score, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, class_id, teacher_id, title, description, is_published, passing_score, time_limit_minutes, created_at, updated_at`,
		req.ClassID, teacherID, req.Title, req.Description, req.IsPublished, req.PassingScore, req.TimeLimitMinutes,
	).Scan(&q.ID, &q.ClassID, &q.TeacherID, &q.Title, &desc, &q.IsPublished,
		&q.PassingScore, &q.TimeLimitMinutes, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}
	q.Description = desc.String

	for _, question := range req.Questions {
		var questionID int64
		err = tx.QueryRow(
			`INSERT INTO quiz_questions (quiz_id, question, question_order, points)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			q.ID, question.Question, question.QuestionOrder, question.Points,
		).Scan(&questionID)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}

		for _, opt := range question.Options {
			_, err = tx.Exec(
				`INSERT INTO quiz_options (question_id, option_text, option_order, is_correct)
				 VALUES ($1, $2, $3, $4)`,
				questionID, opt.OptionText, opt.OptionOrder, opt.IsCorrect,
			)
			if err != nil {
				return nil, fmt.Errorf("insert option: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create quiz: %w", err)
	}
	q.QuestionCount = len(req.Questions)
	return &q, nil
}

// CreateGeneratedQuiz persists an AI-generated quiz and bumps the class
// schedule in the same transaction.
func (s *Store) CreateGeneratedQuiz(classID, teacherID int64, gen *generator.GeneratedQuiz) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin generated quiz: %w", err)
	}
	defer tx.Rollback()

	var quizID int64
	err = tx.QueryRow(
		`INSERT INTO quizzes (class_id, teacher_id, title, description, is_published, passing_score, time_limit_minutes)
		 VALUES ($1, $2, $3, $4, TRUE, 60, 30)
		 RETURNING id`,
		classID, teacherID, gen.QuizTitle, gen.QuizDescription,
	).Scan(&quizID)
	if err != nil {
		return 0, fmt.Errorf("insert generated quiz: %w", err)
	}

	for _, question := range gen.Questions {
		var questionID int64
		err = tx.QueryRow(
			`INSERT INTO quiz_questions (quiz_id, question, question_order, points)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			quizID, question.QuestionText, question.QuestionOrder, question.Points,
		).Scan(&questionID)
		if err != nil {
			return 0, fmt.Errorf("insert generated question: %w", err)
		}

		for _, opt := range question.Options {
			_, err = tx.Exec(
				`INSERT INTO quiz_options (question_id, option_text, option_order, is_correct)
				 VALUES ($1, $2, $3, $4)`,
				questionID, opt.OptionText, opt.OptionOrder, opt.IsCorrect,
			)
			if err != nil {
				return 0, fmt.Errorf("insert generated option: %w", err)
			}
		}
	}

	_, err = tx.Exec(
		`UPDATE auto_quiz_schedule
		 SET last_generated_at = NOW(), next_generation_at = NOW() + INTERVAL '7 days'
		 WHERE class_id = $1`,
		classID,
	)
	if err != nil {
		return 0, fmt.Errorf("update schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit generated quiz: %w", err)
	}
	return quizID, nil
}

func (s *Store) GetQuiz(quizID int64) (*models.Quiz, error) {
	var q models.Quiz
	var desc sql.NullString
	err := s.db.QueryRow(
		`SELECT id, class_id, teacher_id, title, description, is_published, passing_score, time_limit_minutes,
		        (SELECT COUNT(*) FROM quiz_questions qq WHERE qq.quiz_id = quizzes.id),
		        created_at, updated_at
		 FROM quizzes WHERE id = $1`,
		quizID,
	).Scan(&q.ID, &q.ClassID, &q.TeacherID, &q.Title, &desc, &q.IsPublished,
		&q.PassingScore, &q.TimeLimitMinutes, &q.QuestionCount, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.Description = desc.String
	return &q, nil
}

func (s *Store) ListQuizzes(classID int64, publishedOnly bool) ([]models.Quiz, error) {
	query := `SELECT id, class_id, teacher_id, title, description, is_published, passing_score, time_limit_minutes,
	                 (SELECT COUNT(*) FROM quiz_questions qq WHERE qq.quiz_id = quizzes.id),
	                 created_at, updated_at
	          FROM quizzes
	          WHERE class_id = $1`
	if publishedOnly {
		query += ` AND is_published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, classID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var q models.Quiz
		var desc sql.NullString
		if err := rows.Scan(&q.ID, &q.ClassID, &q.TeacherID, &q.Title, &desc, &q.IsPublished,
			&q.PassingScore, &q.TimeLimitMinutes, &q.QuestionCount, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		q.Description = desc.String
		quizzes = append(quizzes, q)
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}
	return quizzes, rows.Err()
}

func (s *Store) PublishQuiz(quizID, teacherID int64, published bool) error {
	result, err := s.db.Exec(
		`UPDATE quizzes SET is_published = $3, updated_at = NOW()
		 WHERE id = $1 AND teacher_id = $2`,
		quizID, teacherID, published,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("quiz not found or not authorized")
	}
	return nil
}

// GetQuestions loads a quiz's questions with their options. Correct flags are
// only populated when includeCorrect is set.
func (s *Store) GetQuestions(quizID int64, includeCorrect bool) ([]models.QuizQuestion, error) {
	rows, err := s.db.Query(
		`SELECT id, quiz_id, question, question_order, points
		 FROM quiz_questions WHERE quiz_id = $1 ORDER BY question_order`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	byID := make(map[int64]*models.QuizQuestion)
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, &q.QuestionOrder, &q.Points); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	optRows, err := s.db.Query(
		`SELECT o.id, o.question_id, o.option_text, o.option_order, o.is_correct
		 FROM quiz_options o
		 JOIN quiz_questions q ON q.id = o.question_id
		 WHERE q.quiz_id = $1
		 ORDER BY o.option_order`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o models.QuizOption
		var isCorrect bool
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.OptionText, &o.OptionOrder, &isCorrect); err != nil {
			return nil, err
		}
		if includeCorrect {
			o.IsCorrect = &isCorrect
		}
		if q, ok := byID[o.QuestionID]; ok {
			q.Options = append(q.Options, o)
		}
	}
	if questions == nil {
		questions = []models.QuizQuestion{}
	}
	return questions, optRows.Err()
}

// CorrectOptions maps each question of a quiz to its correct option ID and
// point value. Used for server-side scoring.
func (s *Store) CorrectOptions(quizID int64) (map[int64]int64, map[int64]int, error) {
	rows, err := s.db.Query(
		`SELECT q.id, o.id, q.points
		 FROM quiz_questions q
		 JOIN quiz_options o ON o.question_id = q.id AND o.is_correct = TRUE
		 WHERE q.quiz_id = $1`,
		quizID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("load correct options: %w", err)
	}
	defer rows.Close()

	correct := make(map[int64]int64)
	points := make(map[int64]int)
	for rows.Next() {
		var questionID, optionID int64
		var pts int
		if err := rows.Scan(&questionID, &optionID, &pts); err != nil {
			return nil, nil, err
		}
		correct[questionID] = optionID
		points[questionID] = pts
	}
	return correct, points, rows.Err()
}

// ── Attempts ────────────────────────────────────────────

func (s *Store) StartAttempt(quizID, studentID int64) (*models.QuizAttempt, error) {
	var a models.QuizAttempt
	err := s.db.QueryRow(
		`INSERT INTO quiz_attempts (quiz_id, student_id)
		 VALUES ($1, $2)
		 RETURNING id, quiz_id, student_id, started_at`,
		quizID, studentID,
	).Scan(&a.ID, &a.QuizID, &a.StudentID, &a.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("start attempt: %w", err)
	}
	return &a, nil
}

func (s *Store) GetAttempt(attemptID int64) (*models.QuizAttempt, error) {
	var a models.QuizAttempt
	var answers []byte
	err := s.db.QueryRow(
		`SELECT id, quiz_id, student_id, answers, score, total_points, started_at, completed_at
		 FROM quiz_attempts WHERE id = $1`,
		attemptID,
	).Scan(&a.ID, &a.QuizID, &a.StudentID, &answers, &a.Score, &a.TotalPoints, &a.StartedAt, &a.CompletedAt)
	if err != nil {
		return nil, err
	}
	a.Answers = json.RawMessage(answers)
	return &a, nil
}

// CompleteAttempt stores the answers and score. The completed_at IS NULL
// guard makes resubmission a no-op.
func (s *Store) CompleteAttempt(attemptID int64, answers json.RawMessage, score, totalPoints int) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE quiz_attempts
		 SET answers = $2, score = $3, total_points = $4, completed_at = NOW()
		 WHERE id = $1 AND completed_at IS NULL`,
		attemptID, []byte(answers), score, totalPoints,
	)
	if err != nil {
		return false, fmt.Errorf("complete attempt: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) ListAttempts(quizID, studentID int64) ([]models.QuizAttempt, error) {
	rows, err := s.db.Query(
		`SELECT id, quiz_id, student_id, answers, score, total_points, started_at, completed_at
		 FROM quiz_attempts
		 WHERE quiz_id = $1 AND student_id = $2
		 ORDER BY started_at DESC`,
		quizID, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StudentID, &answers, &a.Score, &a.TotalPoints, &a.StartedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		a.Answers = json.RawMessage(answers)
		attempts = append(attempts, a)
	}
	if attempts == nil {
		attempts = []models.QuizAttempt{}
	}
	return attempts, rows.Err()
}

// ── Class lookups ───────────────────────────────────────

func (s *Store) IsEnrolled(classID, studentID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(
		    SELECT 1 FROM class_enrollments WHERE class_id = $1 AND student_id = $2
		)`,
		classID, studentID,
	).Scan(&exists)
	return exists, err
}

func (s *Store) IsClassTeacher(classID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1 AND teacher_id = $2)`,
		classID, userID,
	).Scan(&exists)
	return exists, err
}

func (s *Store) ClassName(classID int64) (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM classes WHERE id = $1`, classID).Scan(&name)
	return name, err
}

// ── Materials for generation ────────────────────────────

// MaterialsSince returns a class's materials created after the cutoff,
// newest first.
func (s *Store) MaterialsSince(classID int64, since time.Time) ([]models.Material, error) {
	return s.queryMaterials(
		`SELECT id, class_id, teacher_id, title, description, content, created_at, updated_at
		 FROM materials
		 WHERE class_id = $1 AND created_at >= $2
		 ORDER BY created_at DESC`,
		classID, since,
	)
}

// LatestMaterials returns the most recent materials regardless of age.
func (s *Store) LatestMaterials(classID int64, limit int) ([]models.Material, error) {
	return s.queryMaterials(
		`SELECT id, class_id, teacher_id, title, description, content, created_at, updated_at
		 FROM materials
		 WHERE class_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		classID, limit,
	)
}

func (s *Store) queryMaterials(query string, args ...interface{}) ([]models.Material, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		var desc sql.NullString
		if err := rows.Scan(&m.ID, &m.ClassID, &m.TeacherID, &m.Title, &desc, &m.Content, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Description = desc.String
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// ── Schedules ───────────────────────────────────────────

func (s *Store) UpsertSchedule(classID int64, enabled bool) (*models.AutoQuizSchedule, error) {
	var sched models.AutoQuizSchedule
	err := s.db.QueryRow(
		`INSERT INTO auto_quiz_schedule (class_id, enabled)
		 VALUES ($1, $2)
		 ON CONFLICT (class_id) DO UPDATE SET enabled = EXCLUDED.enabled
		 RETURNING id, class_id, enabled, last_generated_at, next_generation_at, created_at`,
		classID, enabled,
	).Scan(&sched.ID, &sched.ClassID, &sched.Enabled, &sched.LastGeneratedAt, &sched.NextGenerationAt, &sched.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}
	return &sched, nil
}

func (s *Store) GetSchedule(classID int64) (*models.AutoQuizSchedule, error) {
	var sched models.AutoQuizSchedule
	err := s.db.QueryRow(
		`SELECT id, class_id, enabled, last_generated_at, next_generation_at, created_at
		 FROM auto_quiz_schedule WHERE class_id = $1`,
		classID,
	).Scan(&sched.ID, &sched.ClassID, &sched.Enabled, &sched.LastGeneratedAt, &sched.NextGenerationAt, &sched.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

// DueSchedules returns enabled schedules whose next generation time has
// passed, alongside the owning teacher of each class.
func (s *Store) DueSchedules() ([]DueSchedule, error) {
	rows, err := s.db.Query(
		`SELECT sch.class_id, c.teacher_id
		 FROM auto_quiz_schedule sch
		 JOIN classes c ON c.id = sch.class_id
		 WHERE sch.enabled = TRUE AND sch.next_generation_at <= NOW()
		 ORDER BY sch.next_generation_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("due schedules: %w", err)
	}
	defer rows.Close()

	var due []DueSchedule
	for rows.Next() {
		var d DueSchedule
		if err := rows.Scan(&d.ClassID, &d.TeacherID); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

type DueSchedule struct {
	ClassID   int64
	TeacherID int64
}
