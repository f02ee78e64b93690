package gamification

import (
	"time"

	"github.com/lumina-edu/backend/internal/models"
)

// Mission requirement types. Seeded missions use these values.
const (
	MissionReqCompleteQuizzes = "complete_quizzes"
	MissionReqPerfectQuizzes  = "perfect_quizzes"
	MissionReqReadMaterials   = "read_materials"
	MissionReqDailyLogin      = "daily_login"
	MissionReqEnrollClasses   = "enroll_classes"
)

// activityRequirements maps an activity type to the mission requirement types
// it advances. Activity types absent from this table advance no mission.
var activityRequirements = map[models.ActivityType][]string{
	models.ActivityQuizCompleted: {MissionReqCompleteQuizzes},
	models.ActivityQuizPerfect:   {MissionReqCompleteQuizzes, MissionReqPerfectQuizzes},
	models.ActivityMaterialRead:  {MissionReqReadMaterials},
	models.ActivityDailyLogin:    {MissionReqDailyLogin},
	models.ActivityEnrolled:      {MissionReqEnrollClasses},
}

// RequirementsForActivity returns the mission requirement types advanced by
// an activity, nil for unmapped activities.
func RequirementsForActivity(t models.ActivityType) []string {
	return activityRequirements[t]
}

// MissionDuration returns how long an assigned mission stays active.
func MissionDuration(t models.MissionType) time.Duration {
	if t == models.MissionWeekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}
