package gamification

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextStreak(t *testing.T) {
	today := day("2026-03-10")
	yesterday := day("2026-03-09")
	threeDaysAgo := day("2026-03-07")

	tests := []struct {
		name        string
		current     int
		lastActive  *time.Time
		wantStreak  int
		wantChanged bool
	}{
		{"first ever activity", 0, nil, 1, true},
		{"same day is a no-op", 4, &today, 4, false},
		{"consecutive day increments", 4, &yesterday, 5, true},
		{"gap resets to one", 9, &threeDaysAgo, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak, changed := NextStreak(tt.current, tt.lastActive, today)
			if streak != tt.wantStreak || changed != tt.wantChanged {
				t.Errorf("NextStreak(%d, %v, today) = (%d, %t), want (%d, %t)",
					tt.current, tt.lastActive, streak, changed, tt.wantStreak, tt.wantChanged)
			}
		})
	}
}

func TestNextStreak_IgnoresTimeOfDay(t *testing.T) {
	lastActive := day("2026-03-09").Add(23*time.Hour + 59*time.Minute)
	today := day("2026-03-10").Add(5 * time.Minute)

	streak, changed := NextStreak(2, &lastActive, today)
	if streak != 3 || !changed {
		t.Errorf("late-night followed by early-morning activity = (%d, %t), want (3, true)", streak, changed)
	}
}
