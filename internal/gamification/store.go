package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumina-edu/backend/internal/models"
)

// missionActive is the single predicate for what counts as an active mission.
// Every query that filters active missions uses this fragment so assignment
// and progress updates agree on the derived "expired" state.
const missionActive = "um.expires_at > NOW() AND um.completed = FALSE"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── XP Ledger ───────────────────────────────────────────

func (s *Store) GetOrCreateUserXP(userID int64) (*models.UserXP, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_xp (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user_xp: %w", err)
	}

	var u models.UserXP
	err = s.db.QueryRow(
		`SELECT id, user_id, total_xp, level, current_streak, longest_streak,
		        last_activity_date, created_at, updated_at
		 FROM user_xp WHERE user_id = $1`,
		userID,
	).Scan(&u.ID, &u.UserID, &u.TotalXP, &u.Level, &u.CurrentStreak,
		&u.LongestStreak, &u.LastActivityDate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user_xp: %w", err)
	}
	return &u, nil
}

// AddXP atomically increments the ledger, recomputes the level, and appends
// the activity log entry — all in one transaction so the ledger never drifts
// from its history. The increment is evaluated server-side, so concurrent
// grants add correctly.
func (s *Store) AddXP(userID int64, amount int, activityType models.ActivityType, metadata map[string]interface{}) (*models.AddXPResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO user_xp (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	); err != nil {
		return nil, fmt.Errorf("upsert user_xp: %w", err)
	}

	var newTotal int64
	var oldLevel int
	err = tx.QueryRow(
		`UPDATE user_xp
		 SET total_xp = total_xp + $2, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING total_xp, level`,
		userID, amount,
	).Scan(&newTotal, &oldLevel)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}

	newLevel := LevelForXP(newTotal)
	if newLevel != oldLevel {
		if _, err := tx.Exec(
			`UPDATE user_xp SET level = $2 WHERE user_id = $1`,
			userID, newLevel,
		); err != nil {
			return nil, fmt.Errorf("update level: %w", err)
		}
	}

	var metaJSON *string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			v := string(b)
			metaJSON = &v
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO activity_log (user_id, activity_type, xp_earned, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, activityType, amount, metaJSON,
	); err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &models.AddXPResult{
		NewTotalXP: newTotal,
		NewLevel:   newLevel,
		LevelUp:    newLevel > oldLevel,
	}, nil
}

func (s *Store) UpdateStreak(userID int64, currentStreak, longestStreak int, activityDate time.Time) error {
	_, err := s.db.Exec(
		`UPDATE user_xp
		 SET current_streak = $2, longest_streak = $3, last_activity_date = $4, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, currentStreak, longestStreak, activityDate,
	)
	return err
}

func (s *Store) HasActivityToday(userID int64, activityType models.ActivityType) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(
		    SELECT 1 FROM activity_log
		    WHERE user_id = $1 AND activity_type = $2 AND activity_date = CURRENT_DATE
		)`,
		userID, activityType,
	).Scan(&exists)
	return exists, err
}

func (s *Store) GetRecentActivity(userID int64, limit int) ([]models.ActivityLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, activity_type, xp_earned, activity_date, metadata, created_at
		 FROM activity_log
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get recent activity: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLogEntry
	for rows.Next() {
		var e models.ActivityLogEntry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActivityType, &e.XPEarned,
			&e.ActivityDate, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Metadata = meta
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.ActivityLogEntry{}
	}
	return entries, rows.Err()
}

// ── Badge Aggregates & Unlocks ──────────────────────────

// GetUserStats gathers the aggregates the badge evaluator measures against.
// quiz_perfect entries count as completed quizzes too.
func (s *Store) GetUserStats(userID int64) (UserStats, error) {
	var stats UserStats

	err := s.db.QueryRow(
		`SELECT COALESCE(x.total_xp, 0), COALESCE(x.longest_streak, 0),
		        COUNT(*) FILTER (WHERE a.activity_type IN ('quiz_completed', 'quiz_perfect')),
		        COUNT(*) FILTER (WHERE a.activity_type = 'quiz_perfect'),
		        COUNT(*) FILTER (WHERE a.activity_type = 'material_read'),
		        COUNT(*) FILTER (WHERE a.activity_type = 'enrolled')
		 FROM user_xp x
		 LEFT JOIN activity_log a ON a.user_id = x.user_id
		 WHERE x.user_id = $1
		 GROUP BY x.total_xp, x.longest_streak`,
		userID,
	).Scan(&stats.TotalXP, &stats.LongestStreak, &stats.QuizzesCompleted,
		&stats.PerfectQuizzes, &stats.MaterialsRead, &stats.ClassesEnrolled)
	if err == sql.ErrNoRows {
		return UserStats{}, nil
	}
	if err != nil {
		return UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}

// GetLockedBadges returns all badges the user has not unlocked yet.
func (s *Store) GetLockedBadges(userID int64) ([]models.Badge, error) {
	rows, err := s.db.Query(
		`SELECT b.id, b.name, b.description, b.icon, b.category,
		        b.requirement_type, b.requirement_value, b.xp_reward, b.created_at
		 FROM badges b
		 WHERE NOT EXISTS (
		     SELECT 1 FROM user_badges ub
		     WHERE ub.user_id = $1 AND ub.badge_id = b.id
		 )`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get locked badges: %w", err)
	}
	defer rows.Close()

	return scanBadges(rows)
}

// UnlockBadge inserts the user_badge row. Returns false when the badge was
// already unlocked (the insert was a no-op).
func (s *Store) UnlockBadge(userID, badgeID int64) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO user_badges (user_id, badge_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, badge_id) DO NOTHING`,
		userID, badgeID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) GetUserBadges(userID int64) ([]models.UserBadge, error) {
	rows, err := s.db.Query(
		`SELECT ub.id, ub.user_id, ub.badge_id, ub.unlocked_at,
		        b.id, b.name, b.description, b.icon, b.category,
		        b.requirement_type, b.requirement_value, b.xp_reward, b.created_at
		 FROM user_badges ub
		 JOIN badges b ON b.id = ub.badge_id
		 WHERE ub.user_id = $1
		 ORDER BY ub.unlocked_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get user badges: %w", err)
	}
	defer rows.Close()

	var badges []models.UserBadge
	for rows.Next() {
		var ub models.UserBadge
		var b models.Badge
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.UnlockedAt,
			&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
			&b.RequirementType, &b.RequirementValue, &b.XPReward, &b.CreatedAt); err != nil {
			return nil, err
		}
		ub.Badge = &b
		badges = append(badges, ub)
	}
	if badges == nil {
		badges = []models.UserBadge{}
	}
	return badges, rows.Err()
}

func scanBadges(rows *sql.Rows) ([]models.Badge, error) {
	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Category,
			&b.RequirementType, &b.RequirementValue, &b.XPReward, &b.CreatedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// ── Missions ────────────────────────────────────────────

// AssignMissions creates user_mission rows for every active catalog mission
// of the given type, unless the user already has an active mission of that
// type. The NOT EXISTS guard makes repeated calls no-ops. Returns the number
// of missions assigned.
func (s *Store) AssignMissions(userID int64, missionType models.MissionType, duration time.Duration) (int, error) {
	interval := fmt.Sprintf("%d seconds", int(duration.Seconds()))
	result, err := s.db.Exec(
		`INSERT INTO user_missions (user_id, mission_id, expires_at)
		 SELECT $1, m.id, NOW() + $3::interval
		 FROM missions m
		 WHERE m.mission_type = $2 AND m.is_active
		 AND NOT EXISTS (
		     SELECT 1 FROM user_missions um
		     JOIN missions m2 ON m2.id = um.mission_id
		     WHERE um.user_id = $1 AND m2.mission_type = $2 AND um.expires_at > NOW()
		 )`,
		userID, missionType, interval,
	)
	if err != nil {
		return 0, fmt.Errorf("assign %s missions: %w", missionType, err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// missionProgressRow is one mission advanced by IncrementMissionProgress.
type missionProgressRow struct {
	UserMissionID int64
	Progress      int
	Requirement   int
	XPReward      int
	MissionID     int64
	MissionName   string
}

// IncrementMissionProgress atomically adds increment to every active,
// uncompleted user mission whose catalog entry matches requirementType.
// Missions whose progress already met the requirement are left untouched, so
// a completion can only be produced once.
func (s *Store) IncrementMissionProgress(userID int64, requirementType string, increment int) ([]missionProgressRow, error) {
	rows, err := s.db.Query(
		`UPDATE user_missions um
		 SET progress = um.progress + $3
		 FROM missions m
		 WHERE m.id = um.mission_id
		   AND um.user_id = $1
		   AND m.requirement_type = $2
		   AND um.progress < m.requirement_value
		   AND `+missionActive+`
		 RETURNING um.id, um.progress, m.requirement_value, m.xp_reward, m.id, m.name`,
		userID, requirementType, increment,
	)
	if err != nil {
		return nil, fmt.Errorf("increment mission progress: %w", err)
	}
	defer rows.Close()

	var updated []missionProgressRow
	for rows.Next() {
		var r missionProgressRow
		if err := rows.Scan(&r.UserMissionID, &r.Progress, &r.Requirement,
			&r.XPReward, &r.MissionID, &r.MissionName); err != nil {
			return nil, err
		}
		updated = append(updated, r)
	}
	return updated, rows.Err()
}

// CompleteMission flips the completed flag exactly once. Returns false when
// another caller already completed the mission.
func (s *Store) CompleteMission(userMissionID int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE user_missions
		 SET completed = TRUE, completed_at = NOW()
		 WHERE id = $1 AND completed = FALSE`,
		userMissionID,
	)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) GetUserMission(userMissionID int64) (*models.UserMission, error) {
	var um models.UserMission
	var m models.Mission
	err := s.db.QueryRow(
		`SELECT um.id, um.user_id, um.mission_id, um.progress, um.completed,
		        um.completed_at, um.expires_at, um.created_at,
		        m.id, m.name, m.description, m.mission_type, m.category,
		        m.requirement_type, m.requirement_value, m.xp_reward, m.icon, m.is_active
		 FROM user_missions um
		 JOIN missions m ON m.id = um.mission_id
		 WHERE um.id = $1`,
		userMissionID,
	).Scan(&um.ID, &um.UserID, &um.MissionID, &um.Progress, &um.Completed,
		&um.CompletedAt, &um.ExpiresAt, &um.CreatedAt,
		&m.ID, &m.Name, &m.Description, &m.MissionType, &m.Category,
		&m.RequirementType, &m.RequirementValue, &m.XPReward, &m.Icon, &m.IsActive)
	if err != nil {
		return nil, err
	}
	um.Mission = &m
	return &um, nil
}

// GetCurrentMissions returns the user's unexpired missions, completed ones
// included, soonest expiry first.
func (s *Store) GetCurrentMissions(userID int64) ([]models.UserMission, error) {
	rows, err := s.db.Query(
		`SELECT um.id, um.user_id, um.mission_id, um.progress, um.completed,
		        um.completed_at, um.expires_at, um.created_at,
		        m.id, m.name, m.description, m.mission_type, m.category,
		        m.requirement_type, m.requirement_value, m.xp_reward, m.icon, m.is_active
		 FROM user_missions um
		 JOIN missions m ON m.id = um.mission_id
		 WHERE um.user_id = $1 AND um.expires_at > NOW()
		 ORDER BY um.expires_at, m.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get current missions: %w", err)
	}
	defer rows.Close()

	var missions []models.UserMission
	for rows.Next() {
		var um models.UserMission
		var m models.Mission
		if err := rows.Scan(&um.ID, &um.UserID, &um.MissionID, &um.Progress, &um.Completed,
			&um.CompletedAt, &um.ExpiresAt, &um.CreatedAt,
			&m.ID, &m.Name, &m.Description, &m.MissionType, &m.Category,
			&m.RequirementType, &m.RequirementValue, &m.XPReward, &m.Icon, &m.IsActive); err != nil {
			return nil, err
		}
		um.Mission = &m
		missions = append(missions, um)
	}
	if missions == nil {
		missions = []models.UserMission{}
	}
	return missions, rows.Err()
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Store) GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, x.total_xp, x.level,
		        ROW_NUMBER() OVER (ORDER BY x.total_xp DESC, u.id) as rank
		 FROM user_xp x
		 JOIN users u ON u.id = x.user_id
		 WHERE x.total_xp > 0
		 ORDER BY x.total_xp DESC, u.id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		var fullName string
		if err := rows.Scan(&e.UserID, &fullName, &e.TotalXP, &e.Level, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		e.DisplayName = models.User{Name: fullName}.DisplayName()
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, rows.Err()
}
