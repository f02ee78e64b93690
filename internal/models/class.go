package models

import "time"

type Class struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Code         string    `json:"code"`
	TeacherID    int64     `json:"teacher_id"`
	TeacherName  string    `json:"teacher_name,omitempty"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID         int64     `json:"id"`
	ClassID    int64     `json:"class_id"`
	StudentID  int64     `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type Material struct {
	ID          int64     `json:"id"`
	ClassID     int64     `json:"class_id"`
	TeacherID   int64     `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content"`
	VideoURL    *string   `json:"video_url,omitempty"`
	VideoType   *string   `json:"video_type,omitempty"`
	ReadByUser  bool      `json:"read_by_user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CalendarEvent struct {
	ID          int64     `json:"id"`
	ClassID     *int64    `json:"class_id,omitempty"`
	TeacherID   int64     `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EventType   string    `json:"event_type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ── Request Types ─────────────────────────────────────────

type CreateClassRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type EnrollRequest struct {
	Code string `json:"code"`
}

type CreateMaterialRequest struct {
	ClassID     int64   `json:"class_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	VideoURL    *string `json:"video_url"`
	VideoType   *string `json:"video_type"`
}

type CreateEventRequest struct {
	ClassID     *int64    `json:"class_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventType   string    `json:"event_type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// ── Response Types ────────────────────────────────────────

type EnrollResponse struct {
	Enrollment Enrollment    `json:"enrollment"`
	Class      Class         `json:"class"`
	Reward     *ActivityResult `json:"reward,omitempty"`
}

type MarkReadResponse struct {
	MaterialID  int64           `json:"material_id"`
	AlreadyRead bool            `json:"already_read"`
	Reward      *ActivityResult `json:"reward,omitempty"`
}
