package gamification

import (
	"testing"
	"time"

	"github.com/lumina-edu/backend/internal/models"
)

func TestRequirementsForActivity(t *testing.T) {
	tests := []struct {
		activity models.ActivityType
		want     []string
	}{
		{models.ActivityQuizCompleted, []string{MissionReqCompleteQuizzes}},
		{models.ActivityQuizPerfect, []string{MissionReqCompleteQuizzes, MissionReqPerfectQuizzes}},
		{models.ActivityMaterialRead, []string{MissionReqReadMaterials}},
		{models.ActivityDailyLogin, []string{MissionReqDailyLogin}},
		{models.ActivityEnrolled, []string{MissionReqEnrollClasses}},
		{models.ActivityBadgeUnlocked, nil},
		{models.ActivityMissionDone, nil},
	}

	for _, tt := range tests {
		got := RequirementsForActivity(tt.activity)
		if len(got) != len(tt.want) {
			t.Errorf("RequirementsForActivity(%q) = %v, want %v", tt.activity, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("RequirementsForActivity(%q)[%d] = %q, want %q", tt.activity, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPerfectQuizAdvancesBothRequirements(t *testing.T) {
	// A perfect quiz is still a completed quiz: it must advance both
	// completion and perfection missions.
	reqs := RequirementsForActivity(models.ActivityQuizPerfect)
	found := map[string]bool{}
	for _, r := range reqs {
		found[r] = true
	}
	if !found[MissionReqCompleteQuizzes] || !found[MissionReqPerfectQuizzes] {
		t.Errorf("quiz_perfect advances %v, want both complete_quizzes and perfect_quizzes", reqs)
	}
}

func TestMissionDuration(t *testing.T) {
	if d := MissionDuration(models.MissionDaily); d != 24*time.Hour {
		t.Errorf("daily duration = %v, want 24h", d)
	}
	if d := MissionDuration(models.MissionWeekly); d != 7*24*time.Hour {
		t.Errorf("weekly duration = %v, want 168h", d)
	}
}
