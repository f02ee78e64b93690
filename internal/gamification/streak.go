package gamification

import "time"

// NextStreak computes the streak value after activity on day `today`, given
// the stored streak and last activity date. Returns the new streak and whether
// the row changed (false when already active today).
func NextStreak(current int, lastActive *time.Time, today time.Time) (int, bool) {
	today = today.UTC().Truncate(24 * time.Hour)

	if lastActive == nil {
		// First ever activity
		return 1, true
	}

	last := lastActive.UTC().Truncate(24 * time.Hour)
	if last.Equal(today) {
		return current, false
	}

	daysSinceLast := int(today.Sub(last).Hours() / 24)
	if daysSinceLast == 1 {
		// Consecutive day
		return current + 1, true
	}

	// Streak broken
	return 1, true
}
