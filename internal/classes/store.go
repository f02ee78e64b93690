package classes

import (
	"database/sql"
	"fmt"

	"github.com/lumina-edu/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Classes ─────────────────────────────────────────────

func (s *Store) CreateClass(teacherID int64, name, description, code string) (*models.Class, error) {
	var c models.Class
	var desc sql.NullString
	err := s.db.QueryRow(
		`INSERT INTO classes (name, description, code, teacher_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, description, code, teacher_id, created_at, updated_at`,
		name, description, code, teacherID,
	).Scan(&c.ID, &c.Name, &desc, &c.Code, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	c.Description = desc.String
	return &c, nil
}

func (s *Store) GetClass(classID int64) (*models.Class, error) {
	var c models.Class
	var desc sql.NullString
	err := s.db.QueryRow(
		`SELECT c.id, c.name, c.description, c.code, c.teacher_id, u.name,
		        (SELECT COUNT(*) FROM class_enrollments e WHERE e.class_id = c.id),
		        c.created_at, c.updated_at
		 FROM classes c
		 JOIN users u ON u.id = c.teacher_id
		 WHERE c.id = $1`,
		classID,
	).Scan(&c.ID, &c.Name, &desc, &c.Code, &c.TeacherID, &c.TeacherName,
		&c.StudentCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

func (s *Store) GetClassByCode(code string) (*models.Class, error) {
	var c models.Class
	var desc sql.NullString
	err := s.db.QueryRow(
		`SELECT id, name, description, code, teacher_id, created_at, updated_at
		 FROM classes WHERE code = $1`,
		code,
	).Scan(&c.ID, &c.Name, &desc, &c.Code, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

// ListClassesForUser returns a teacher's own classes or a student's
// enrollments, depending on role.
func (s *Store) ListClassesForUser(userID int64, role string) ([]models.Class, error) {
	query := `SELECT c.id, c.name, c.description, c.code, c.teacher_id, u.name,
	                 (SELECT COUNT(*) FROM class_enrollments e WHERE e.class_id = c.id),
	                 c.created_at, c.updated_at
	          FROM classes c
	          JOIN users u ON u.id = c.teacher_id
	          WHERE c.teacher_id = $1
	          ORDER BY c.created_at DESC`
	if role != models.RoleTeacher {
		query = `SELECT c.id, c.name, c.description, c.code, c.teacher_id, u.name,
		                (SELECT COUNT(*) FROM class_enrollments e2 WHERE e2.class_id = c.id),
		                c.created_at, c.updated_at
		         FROM class_enrollments e
		         JOIN classes c ON c.id = e.class_id
		         JOIN users u ON u.id = c.teacher_id
		         WHERE e.student_id = $1
		         ORDER BY e.enrolled_at DESC`
	}

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.Code, &c.TeacherID, &c.TeacherName,
			&c.StudentCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Description = desc.String
		classes = append(classes, c)
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, rows.Err()
}

// ── Enrollments ─────────────────────────────────────────

func (s *Store) Enroll(classID, studentID int64) (*models.Enrollment, error) {
	var e models.Enrollment
	err := s.db.QueryRow(
		`INSERT INTO class_enrollments (class_id, student_id)
		 VALUES ($1, $2)
		 RETURNING id, class_id, student_id, enrolled_at`,
		classID, studentID,
	).Scan(&e.ID, &e.ClassID, &e.StudentID, &e.EnrolledAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

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

// ── Materials ───────────────────────────────────────────

func (s *Store) CreateMaterial(req models.CreateMaterialRequest, teacherID int64) (*models.Material, error) {
	var m models.Material
	var desc sql.NullString
	err := s.db.QueryRow(
		`INSERT INTO materials (class_id, teacher_id, title, description, content, video_url, video_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, class_id, teacher_id, title, description, content, video_url, video_type, created_at, updated_at`,
		req.ClassID, teacherID, req.Title, req.Description, req.Content, req.VideoURL, req.VideoType,
	).Scan(&m.ID, &m.ClassID, &m.TeacherID, &m.Title, &desc, &m.Content,
		&m.VideoURL, &m.VideoType, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	m.Description = desc.String
	return &m, nil
}

func (s *Store) GetMaterial(materialID int64) (*models.Material, error) {
	var m models.Material
	var desc sql.NullString
	err := s.db.QueryRow(
		`SELECT id, class_id, teacher_id, title, description, content, video_url, video_type, created_at, updated_at
		 FROM materials WHERE id = $1`,
		materialID,
	).Scan(&m.ID, &m.ClassID, &m.TeacherID, &m.Title, &desc, &m.Content,
		&m.VideoURL, &m.VideoType, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Description = desc.String
	return &m, nil
}

func (s *Store) ListMaterials(classID, forUserID int64) ([]models.Material, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.class_id, m.teacher_id, m.title, m.description, m.content,
		        m.video_url, m.video_type,
		        EXISTS(SELECT 1 FROM material_reads r WHERE r.material_id = m.id AND r.user_id = $2),
		        m.created_at, m.updated_at
		 FROM materials m
		 WHERE m.class_id = $1
		 ORDER BY m.created_at DESC`,
		classID, forUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var m models.Material
		var desc sql.NullString
		if err := rows.Scan(&m.ID, &m.ClassID, &m.TeacherID, &m.Title, &desc, &m.Content,
			&m.VideoURL, &m.VideoType, &m.ReadByUser, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Description = desc.String
		materials = append(materials, m)
	}
	if materials == nil {
		materials = []models.Material{}
	}
	return materials, rows.Err()
}

// MarkMaterialRead records the read. Returns false when the material was
// already read by this user (the insert was a no-op).
func (s *Store) MarkMaterialRead(userID, materialID int64) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO material_reads (user_id, material_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, material_id) DO NOTHING`,
		userID, materialID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// ── Calendar Events ─────────────────────────────────────

func (s *Store) CreateEvent(req models.CreateEventRequest, teacherID int64) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	var desc sql.NullString
	err := s.db.QueryRow(
		`INSERT INTO calendar_events (class_id, teacher_id, title, description, event_type, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, class_id, teacher_id, title, description, event_type, start_date, end_date, created_at, updated_at`,
		req.ClassID, teacherID, req.Title, req.Description, req.EventType, req.StartDate, req.EndDate,
	).Scan(&e.ID, &e.ClassID, &e.TeacherID, &e.Title, &desc, &e.EventType,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	e.Description = desc.String
	return &e, nil
}

/// ListEventsForUser returns events a user can see: a teacher's own events, or
// events attached to classes a student is enrolled in.
func (s *Store) ListEventsForUser(userID int64, role string) ([]models.CalendarEvent, error) {
	query := `SELECT id, class_id, teacher_id, title, description, event_type,
	                 start_date, end_date, created_at, updated_at
	          FROM calendar_events
	          WHERE teacher_id = $1
	          ORDER BY start_date`
	if role != models.RoleTeacher {
		query = `SELECT ev.id, ev.class_id, ev.teacher_id, ev.title, ev.description, ev.event_type,
		                ev.start_date, ev.end_date, ev.created_at, ev.updated_at
		         FROM calendar_events ev
		         JOIN class_enrollments e ON e.class_id = ev.class_id
		         WHERE e.student_id = $1
		         ORDER BY ev.start_date`
	}

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		var desc sql.NullString
		if err := rows.Scan(&e.ID, &e.ClassID, &e.TeacherID, &e.Title, &desc, &e.EventType,
			&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Description = desc.String
		events = append(events, e)
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(eventID, teacherID int64, req models.CreateEventRequest) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	var desc sql.NullString
	err := s.db.QueryRow(
		`UPDATE calendar_events
		 SET title = $3, description = $4, event_type = $5, start_date = $6, end_date = $7, updated_at = NOW()
		 WHERE id = $1 AND teacher_id = $2
		 RETURNING id, class_id, teacher_id, title, description, event_type, start_date, end_date, created_at, updated_at`,
		eventID, teacherID, req.Title, req.Description, req.EventType, req.StartDate, req.EndDate,
	).Scan(&e.ID, &e.ClassID, &e.TeacherID, &e.Title, &desc, &e.EventType,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event not found or not authorized")
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	e.Description = desc.String
	return &e, nil
}

func (s *Store) DeleteEvent(eventID, teacherID int64) error {
	result, err := s.db.Exec(
		`DELETE FROM calendar_events WHERE id = $1 AND teacher_id = $2`,
		eventID, teacherID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("event not found or not authorized")
	}
	return nil
}
