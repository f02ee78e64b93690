package models

import (
	"encoding/json"
	"time"
)

type Quiz struct {
	ID               int64     `json:"id"`
	ClassID          int64     `json:"class_id"`
	TeacherID        int64     `json:"teacher_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	IsPublished      bool      `json:"is_published"`
	PassingScore     int       `json:"passing_score"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	QuestionCount    int       `json:"question_count,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type QuizQuestion struct {
	ID            int64        `json:"id"`
	QuizID        int64        `json:"quiz_id"`
	Question      string       `json:"question"`
	QuestionOrder int          `json:"question_order"`
	Points        int          `json:"points"`
	Options       []QuizOption `json:"options,omitempty"`
}

type QuizOption struct {
	ID          int64  `json:"id"`
	QuestionID  int64  `json:"question_id"`
	OptionText  string `json:"option_text"`
	OptionOrder int    `json:"option_order"`
	// IsCorrect is only serialized for teachers and in results views.
	IsCorrect *bool `json:"is_correct,omitempty"`
}

type QuizAttempt struct {
	ID          int64           `json:"id"`
	QuizID      int64           `json:"quiz_id"`
	StudentID   int64           `json:"student_id"`
	Answers     json.RawMessage `json:"answers,omitempty"`
	Score       *int            `json:"score,omitempty"`
	TotalPoints *int            `json:"total_points,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type AutoQuizSchedule struct {
	ID               int64      `json:"id"`
	ClassID          int64      `json:"class_id"`
	Enabled          bool       `json:"enabled"`
	LastGeneratedAt  *time.Time `json:"last_generated_at,omitempty"`
	NextGenerationAt time.Time  `json:"next_generation_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

type CreateQuizRequest struct {
	ClassID          int64                   `json:"class_id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	PassingScore     int                     `json:"passing_score"`
	TimeLimitMinutes int                     `json:"time_limit_minutes"`
	IsPublished      bool                    `json:"is_published"`
	Questions        []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Question      string                `json:"question"`
	QuestionOrder int                   `json:"question_order"`
	Points        int                   `json:"points"`
	Options       []CreateOptionRequest `json:"options"`
}

type CreateOptionRequest struct {
	OptionText  string `json:"option_text"`
	OptionOrder int    `json:"option_order"`
	IsCorrect   bool   `json:"is_correct"`
}

type SubmitAttemptRequest struct {
	// Answers maps question ID to the selected option ID.
	Answers map[int64]int64 `json:"answers"`
}

type GenerateQuizRequest struct {
	ClassID int64 `json:"class_id"`
}

type UpdateScheduleRequest struct {
	ClassID int64 `json:"class_id"`
	Enabled bool  `json:"enabled"`
}

// ── Response Types ────────────────────────────────────────

type SubmitAttemptResponse struct {
	Attempt     QuizAttempt     `json:"attempt"`
	Score       int             `json:"score"`
	TotalPoints int             `json:"total_points"`
	Passed      bool            `json:"passed"`
	Perfect     bool            `json:"perfect"`
	Reward      *ActivityResult `json:"reward,omitempty"`
}

type GenerateQuizResponse struct {
	QuizID         int64  `json:"quiz_id"`
	QuizTitle      string `json:"quiz_title"`
	QuestionsCount int    `json:"questions_count"`
	MaterialsUsed  int    `json:"materials_used"`
	PeriodUsed     string `json:"period_used"`
}
