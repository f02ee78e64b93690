package gamification

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lumina-edu/backend/internal/models"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ── XP Ledger ───────────────────────────────────────────

// AddXP grants XP for an activity and returns the ledger outcome. The grant,
// level recompute, and activity log entry commit together or not at all.
func (s *Service) AddXP(userID int64, amount int, activityType models.ActivityType, metadata map[string]interface{}) (*models.AddXPResult, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if amount < 0 {
		return nil, fmt.Errorf("xp amount must be non-negative")
	}
	return s.store.AddXP(userID, amount, activityType, metadata)
}

// ── Streak ──────────────────────────────────────────────

// UpdateStreak advances the daily streak for activity today. Calling it twice
// on the same calendar day is a no-op.
func (s *Service) UpdateStreak(userID int64) (int, error) {
	u, err := s.store.GetOrCreateUserXP(userID)
	if err != nil {
		return 0, fmt.Errorf("get user xp: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	streak, changed := NextStreak(u.CurrentStreak, u.LastActivityDate, today)
	if !changed {
		return streak, nil
	}

	longest := u.LongestStreak
	if streak > longest {
		longest = streak
	}

	if err := s.store.UpdateStreak(userID, streak, longest, today); err != nil {
		return 0, fmt.Errorf("update streak: %w", err)
	}
	return streak, nil
}

// ── Badges ──────────────────────────────────────────────

// CheckAndUnlockBadges evaluates all locked badges against the user's current
// aggregates and unlocks the qualifying ones. The badge XP reward flows back
// through AddXP so leveling rules stay centralized. A second call with no new
// activity returns an empty slice.
func (s *Service) CheckAndUnlockBadges(userID int64) ([]models.Badge, error) {
	stats, err := s.store.GetUserStats(userID)
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	locked, err := s.store.GetLockedBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("get locked badges: %w", err)
	}

	unlocked := []models.Badge{}
	for _, badge := range QualifyingBadges(stats, locked) {
		inserted, err := s.store.UnlockBadge(userID, badge.ID)
		if err != nil {
			log.Printf("[gamification] failed to unlock badge %d for user %d: %v", badge.ID, userID, err)
			continue
		}
		if !inserted {
			continue
		}
		unlocked = append(unlocked, badge)

		if badge.XPReward > 0 {
			if _, err := s.AddXP(userID, badge.XPReward, models.ActivityBadgeUnlocked, map[string]interface{}{
				"badge_id":   badge.ID,
				"badge_name": badge.Name,
			}); err != nil {
				log.Printf("[gamification] failed to grant badge reward for user %d: %v", userID, err)
			}
		}
	}

	return unlocked, nil
}

// ── Missions ────────────────────────────────────────────

// AssignDailyMissions creates today's mission set unless the user already has
// an unexpired daily mission.
func (s *Service) AssignDailyMissions(userID int64) (int, error) {
	return s.store.AssignMissions(userID, models.MissionDaily, MissionDuration(models.MissionDaily))
}

// AssignWeeklyMissions creates this week's mission set unless the user
// already has an unexpired weekly mission.
func (s *Service) AssignWeeklyMissions(userID int64) (int, error) {
	return s.store.AssignMissions(userID, models.MissionWeekly, MissionDuration(models.MissionWeekly))
}

// UpdateMissionProgress increments every active mission matching the
// requirement type and completes the ones that reach their target, granting
// each mission's XP reward exactly once.
func (s *Service) UpdateMissionProgress(userID int64, requirementType string, increment int) ([]models.UserMission, error) {
	if increment <= 0 {
		increment = 1
	}

	updated, err := s.store.IncrementMissionProgress(userID, requirementType, increment)
	if err != nil {
		return nil, err
	}

	completed := []models.UserMission{}
	for _, row := range updated {
		if row.Progress < row.Requirement {
			continue
		}

		flipped, err := s.store.CompleteMission(row.UserMissionID)
		if err != nil {
			log.Printf("[gamification] failed to complete mission %d: %v", row.UserMissionID, err)
			continue
		}
		if !flipped {
			continue
		}

		if row.XPReward > 0 {
			if _, err := s.AddXP(userID, row.XPReward, models.ActivityMissionDone, map[string]interface{}{
				"mission_id":   row.MissionID,
				"mission_name": row.MissionName,
			}); err != nil {
				log.Printf("[gamification] failed to grant mission reward for user %d: %v", userID, err)
			}
		}

		um, err := s.store.GetUserMission(row.UserMissionID)
		if err != nil {
			log.Printf("[gamification] failed to reload mission %d: %v", row.UserMissionID, err)
			continue
		}
		completed = append(completed, *um)
	}

	return completed, nil
}

// GetMissions assigns any missing daily/weekly sets, then returns the user's
// current missions grouped by cadence.
func (s *Service) GetMissions(userID int64) (*models.MissionsResponse, error) {
	if _, err := s.AssignDailyMissions(userID); err != nil {
		log.Printf("[gamification] assign daily missions for user %d: %v", userID, err)
	}
	if _, err := s.AssignWeeklyMissions(userID); err != nil {
		log.Printf("[gamification] assign weekly missions for user %d: %v", userID, err)
	}

	missions, err := s.store.GetCurrentMissions(userID)
	if err != nil {
		return nil, err
	}

	resp := &models.MissionsResponse{
		Daily:  []models.UserMission{},
		Weekly: []models.UserMission{},
		Total:  len(missions),
	}
	for _, m := range missions {
		if m.Completed {
			resp.Completed++
		}
		if m.Mission != nil && m.Mission.MissionType == models.MissionWeekly {
			resp.Weekly = append(resp.Weekly, m)
		} else {
			resp.Daily = append(resp.Daily, m)
		}
	}
	if resp.Total > 0 {
		resp.CompletionRate = resp.Completed * 100 / resp.Total
	}
	return resp, nil
}

// ── Orchestration ───────────────────────────────────────

// RecordActivity runs the full gamification sequence for one action:
// XP grant, then streak, badge, and mission updates. The grant commits first;
// later steps are best-effort and never roll it back, so a downstream failure
// costs the user a notification, not state.
func (s *Service) RecordActivity(userID int64, activityType models.ActivityType, metadata map[string]interface{}) (*models.ActivityResult, error) {
	amount := XPForActivity(activityType)

	xp, err := s.AddXP(userID, amount, activityType, metadata)
	if err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}

	result := &models.ActivityResult{
		XP:                xp,
		XPEarned:          amount,
		NewBadges:         []models.Badge{},
		CompletedMissions: []models.UserMission{},
	}

	streak, err := s.UpdateStreak(userID)
	if err != nil {
		log.Printf("[gamification] streak update failed for user %d: %v", userID, err)
	} else {
		result.Streak = streak
	}

	badges, err := s.CheckAndUnlockBadges(userID)
	if err != nil {
		log.Printf("[gamification] badge check failed for user %d: %v", userID, err)
	} else {
		result.NewBadges = badges
	}

	for _, reqType := range RequirementsForActivity(activityType) {
		completed, err := s.UpdateMissionProgress(userID, reqType, 1)
		if err != nil {
			log.Printf("[gamification] mission progress failed for user %d (%s): %v", userID, reqType, err)
			continue
		}
		result.CompletedMissions = append(result.CompletedMissions, completed...)
	}

	return result, nil
}

// RecordDailyLogin grants the login reward at most once per calendar day.
// Returns nil when today's login was already recorded. The pre-check keeps
// the common repeat-login path cheap; the unique index on the activity log
// settles simultaneous logins, and the loser is treated as already recorded.
func (s *Service) RecordDailyLogin(userID int64) (*models.ActivityResult, error) {
	already, err := s.store.HasActivityToday(userID, models.ActivityDailyLogin)
	if err != nil {
		return nil, fmt.Errorf("check daily login: %w", err)
	}
	if already {
		return nil, nil
	}

	result, err := s.RecordActivity(userID, models.ActivityDailyLogin, nil)
	if err != nil {
		if isDuplicateDailyLogin(err) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// isDuplicateDailyLogin reports whether err is the unique violation raised
// when today's login row already exists.
func isDuplicateDailyLogin(err error) bool {
	return err != nil && strings.Contains(err.Error(), "activity_log_daily_login_key")
}

// ── Read Side ───────────────────────────────────────────

func (s *Service) GetGamification(userID int64) (*models.GamificationResponse, error) {
	u, err := s.store.GetOrCreateUserXP(userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.store.GetUserBadges(userID)
	if err != nil {
		badges = []models.UserBadge{}
	}

	activity, err := s.store.GetRecentActivity(userID, 50)
	if err != nil {
		activity = []models.ActivityLogEntry{}
	}

	return &models.GamificationResponse{
		TotalXP:          u.TotalXP,
		Level:            u.Level,
		LevelProgress:    ProgressForXP(u.TotalXP),
		CurrentStreak:    u.CurrentStreak,
		LongestStreak:    u.LongestStreak,
		LastActivityDate: u.LastActivityDate,
		Badges:           badges,
		RecentActivity:   activity,
	}, nil
}

func (s *Service) GetLeaderboard(userID int64, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := s.store.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].IsCurrentUser = true
		}
	}

	return &models.LeaderboardResponse{Entries: entries}, nil
}
