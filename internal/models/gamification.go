package models

import (
	"encoding/json"
	"time"
)

// ── Activity Types ────────────────────────────────────────

// ActivityType identifies a gamified user action. Unknown values are accepted
// by the ledger but carry no friendly description and advance no mission.
type ActivityType string

const (
	ActivityQuizCompleted ActivityType = "quiz_completed"
	ActivityQuizPerfect   ActivityType = "quiz_perfect"
	ActivityMaterialRead  ActivityType = "material_read"
	ActivityEnrolled      ActivityType = "enrolled"
	ActivityDailyLogin    ActivityType = "daily_login"
	ActivityBadgeUnlocked ActivityType = "badge_unlocked"
	ActivityMissionDone   ActivityType = "mission_completed"
)

// ── Core Gamification Structs ─────────────────────────────

type UserXP struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	TotalXP          int64      `json:"total_xp"`
	Level            int        `json:"level"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ActivityLogEntry struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	ActivityType ActivityType    `json:"activity_type"`
	XPEarned     int             `json:"xp_earned"`
	ActivityDate time.Time       `json:"activity_date"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Badge struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Category         string    `json:"category"`
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int64     `json:"requirement_value"`
	XPReward         int       `json:"xp_reward"`
	CreatedAt        time.Time `json:"created_at"`
}

type UserBadge struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BadgeID    int64     `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
	Badge      *Badge    `json:"badge,omitempty"`
}

// Badge category constants.
const (
	BadgeCategoryAcademic   = "academic"
	BadgeCategoryEngagement = "engagement"
	BadgeCategorySocial     = "social"
	BadgeCategorySpecial    = "special"
)

// ── Missions ──────────────────────────────────────────────

// MissionType is the cadence of a mission.
type MissionType string

const (
	MissionDaily  MissionType = "daily"
	MissionWeekly MissionType = "weekly"
)

type Mission struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	MissionType      MissionType `json:"mission_type"`
	Category         string      `json:"category"`
	RequirementType  string      `json:"requirement_type"`
	RequirementValue int         `json:"requirement_value"`
	XPReward         int         `json:"xp_reward"`
	Icon             string      `json:"icon"`
	IsActive         bool        `json:"is_active"`
}

type UserMission struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	MissionID   int64      `json:"mission_id"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Mission     *Mission   `json:"mission,omitempty"`
}

// ── Request Types ─────────────────────────────────────────

type RecordActivityRequest struct {
	ActivityType ActivityType           `json:"activity_type"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// ── Response Types ────────────────────────────────────────

// AddXPResult mirrors the ledger mutation outcome.
type AddXPResult struct {
	NewTotalXP int64 `json:"new_total_xp"`
	NewLevel   int   `json:"new_level"`
	LevelUp    bool  `json:"level_up"`
}

// ActivityResult is the full outcome of one orchestrated gamified action:
// the XP grant plus whatever the best-effort downstream steps produced.
type ActivityResult struct {
	XP                *AddXPResult  `json:"xp,omitempty"`
	XPEarned          int           `json:"xp_earned"`
	Streak            int           `json:"streak"`
	NewBadges         []Badge       `json:"new_badges"`
	CompletedMissions []UserMission `json:"completed_missions"`
}

type GamificationResponse struct {
	TotalXP          int64              `json:"total_xp"`
	Level            int                `json:"level"`
	LevelProgress    LevelProgress      `json:"level_progress"`
	CurrentStreak    int                `json:"current_streak"`
	LongestStreak    int                `json:"longest_streak"`
	LastActivityDate *time.Time         `json:"last_activity_date,omitempty"`
	Badges           []UserBadge        `json:"badges"`
	RecentActivity   []ActivityLogEntry `json:"recent_activity"`
}

// LevelProgress describes where the user sits between level thresholds.
type LevelProgress struct {
	CurrentThreshold int64 `json:"current_threshold"`
	NextThreshold    int64 `json:"next_threshold"`
	AtMaxLevel       bool  `json:"at_max_level"`
}

type MissionsResponse struct {
	Daily          []UserMission `json:"daily"`
	Weekly         []UserMission `json:"weekly"`
	Completed      int           `json:"completed"`
	Total          int           `json:"total"`
	CompletionRate int           `json:"completion_rate"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	TotalXP       int64  `json:"total_xp"`
	Level         int    `json:"level"`
	IsCurrentUser bool   `json:"is_current_user"`
}
