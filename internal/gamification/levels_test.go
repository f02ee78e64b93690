package gamification

import (
	"testing"

	"github.com/lumina-edu/backend/internal/models"
)

func TestLevelForXP_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int64
		want    int
	}{
		{"zero xp", 0, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"mid level 2", 250, 2},
		{"exactly level 3", 300, 3},
		{"exactly level 4", 600, 4},
		{"exactly level 5", 1000, 5},
		{"exactly level 6", 1500, 6},
		{"exactly level 7", 2500, 7},
		{"exactly max level", 5000, 8},
		{"far beyond max level", 1000000, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelForXP(tt.totalXP); got != tt.want {
				t.Errorf("LevelForXP(%d) = %d, want %d", tt.totalXP, got, tt.want)
			}
		})
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := 1
	for xp := int64(0); xp <= 6000; xp += 10 {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		if level > MaxLevel {
			t.Fatalf("level %d exceeds max %d at xp=%d", level, MaxLevel, xp)
		}
		prev = level
	}
}

func TestMaxLevelMatchesTable(t *testing.T) {
	if MaxLevel != len(levelThresholds) {
		t.Fatalf("MaxLevel = %d, threshold table has %d entries", MaxLevel, len(levelThresholds))
	}
	if got := LevelForXP(levelThresholds[MaxLevel-1]); got != MaxLevel {
		t.Errorf("LevelForXP at top threshold = %d, want %d", got, MaxLevel)
	}
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(250)
	if p.CurrentThreshold != 100 || p.NextThreshold != 300 {
		t.Errorf("thresholds for 250 xp = [%d, %d], want [100, 300]", p.CurrentThreshold, p.NextThreshold)
	}
	if p.AtMaxLevel {
		t.Error("250 xp should not be at max level")
	}

	p = ProgressForXP(9999)
	if !p.AtMaxLevel {
		t.Error("9999 xp should be at max level")
	}
	if p.CurrentThreshold != 5000 || p.NextThreshold != 5000 {
		t.Errorf("max level thresholds = [%d, %d], want [5000, 5000]", p.CurrentThreshold, p.NextThreshold)
	}
}

func TestXPForActivity(t *testing.T) {
	tests := []struct {
		activity models.ActivityType
		want     int
	}{
		{models.ActivityQuizCompleted, 30},
		{models.ActivityQuizPerfect, 50},
		{models.ActivityMaterialRead, 10},
		{models.ActivityEnrolled, 20},
		{models.ActivityDailyLogin, 5},
		{models.ActivityBadgeUnlocked, 0}, // reward comes from the badge catalog
		{models.ActivityType("unknown"), 0},
	}

	for _, tt := range tests {
		if got := XPForActivity(tt.activity); got != tt.want {
			t.Errorf("XPForActivity(%q) = %d, want %d", tt.activity, got, tt.want)
		}
	}
}

func TestDescribe_UnknownFallsBack(t *testing.T) {
	if got := Describe(models.ActivityType("mystery")); got != "mystery" {
		t.Errorf("Describe(mystery) = %q, want raw value", got)
	}
	if got := Describe(models.ActivityQuizPerfect); got != "a perfect quiz score" {
		t.Errorf("Describe(quiz_perfect) = %q", got)
	}
}
