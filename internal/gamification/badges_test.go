package gamification

import (
	"testing"

	"github.com/lumina-edu/backend/internal/models"
)

func TestStatFor(t *testing.T) {
	stats := UserStats{
		TotalXP:          500,
		QuizzesCompleted: 12,
		PerfectQuizzes:   3,
		MaterialsRead:    25,
		LongestStreak:    14,
		ClassesEnrolled:  4,
	}

	tests := []struct {
		requirementType string
		want            int64
		wantKnown       bool
	}{
		{ReqTotalXP, 500, true},
		{ReqQuizzesCompleted, 12, true},
		{ReqPerfectQuizzes, 3, true},
		{ReqMaterialsRead, 25, true},
		{ReqStreakDays, 14, true},
		{ReqClassesEnrolled, 4, true},
		{"gems_collected", 0, false},
	}

	for _, tt := range tests {
		got, known := stats.StatFor(tt.requirementType)
		if got != tt.want || known != tt.wantKnown {
			t.Errorf("StatFor(%q) = (%d, %t), want (%d, %t)",
				tt.requirementType, got, known, tt.want, tt.wantKnown)
		}
	}
}

func TestQualifyingBadges(t *testing.T) {
	stats := UserStats{TotalXP: 300, QuizzesCompleted: 5, LongestStreak: 7}

	candidates := []models.Badge{
		{ID: 1, Name: "XP 100", RequirementType: ReqTotalXP, RequirementValue: 100},
		{ID: 2, Name: "XP 1000", RequirementType: ReqTotalXP, RequirementValue: 1000},
		{ID: 3, Name: "Quiz 5", RequirementType: ReqQuizzesCompleted, RequirementValue: 5},
		{ID: 4, Name: "Streak 7", RequirementType: ReqStreakDays, RequirementValue: 7},
		{ID: 5, Name: "Unknown", RequirementType: "gems_collected", RequirementValue: 1},
	}

	qualified := QualifyingBadges(stats, candidates)

	gotIDs := make(map[int64]bool)
	for _, b := range qualified {
		gotIDs[b.ID] = true
	}

	wantIDs := []int64{1, 3, 4}
	if len(qualified) != len(wantIDs) {
		t.Fatalf("got %d qualifying badges, want %d", len(qualified), len(wantIDs))
	}
	for _, id := range wantIDs {
		if !gotIDs[id] {
			t.Errorf("badge %d should have qualified", id)
		}
	}
}

func TestQualifyingBadges_StreakUsesLongest(t *testing.T) {
	// A broken current streak must not revoke eligibility earned by the
	// longest streak.
	stats := UserStats{LongestStreak: 30}
	candidates := []models.Badge{
		{ID: 1, Name: "Streak 30", RequirementType: ReqStreakDays, RequirementValue: 30},
	}

	if got := QualifyingBadges(stats, candidates); len(got) != 1 {
		t.Errorf("got %d qualifying badges, want 1", len(got))
	}
}

func TestQualifyingBadges_Empty(t *testing.T) {
	if got := QualifyingBadges(UserStats{}, nil); got != nil {
		t.Errorf("expected nil for no candidates, got %v", got)
	}
}
