package gamification

import "github.com/lumina-edu/backend/internal/models"

// levelThresholds[i] is the minimum total XP for level i+1. The table is the
// single source of truth for leveling; LevelForXP caps at the last entry.
var levelThresholds = [...]int64{0, 100, 300, 600, 1000, 1500, 2500, 5000}

// MaxLevel is the highest reachable level.
const MaxLevel = len(levelThresholds)

// LevelForXP returns the level for a total XP value: the largest L such that
// levelThresholds[L-1] <= totalXP.
func LevelForXP(totalXP int64) int {
	level := 1
	for i, threshold := range levelThresholds {
		if totalXP >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// ProgressForXP describes where totalXP sits between its level thresholds.
func ProgressForXP(totalXP int64) models.LevelProgress {
	level := LevelForXP(totalXP)
	p := models.LevelProgress{CurrentThreshold: levelThresholds[level-1]}
	if level == MaxLevel {
		p.NextThreshold = levelThresholds[level-1]
		p.AtMaxLevel = true
		return p
	}
	p.NextThreshold = levelThresholds[level]
	return p
}

// activityXP is the XP granted per activity type by the orchestrator.
// Mission and badge rewards come from their catalogs instead.
var activityXP = map[models.ActivityType]int{
	models.ActivityQuizCompleted: 30,
	models.ActivityQuizPerfect:   50,
	models.ActivityMaterialRead:  10,
	models.ActivityEnrolled:      20,
	models.ActivityDailyLogin:    5,
}

// XPForActivity returns the XP value of an activity type, 0 if unmapped.
func XPForActivity(t models.ActivityType) int {
	return activityXP[t]
}

var activityDescriptions = map[models.ActivityType]string{
	models.ActivityQuizCompleted: "completing a quiz",
	models.ActivityQuizPerfect:   "a perfect quiz score",
	models.ActivityMaterialRead:  "reading a material",
	models.ActivityEnrolled:      "enrolling in a class",
	models.ActivityDailyLogin:    "logging in today",
	models.ActivityBadgeUnlocked: "unlocking a badge",
	models.ActivityMissionDone:   "completing a mission",
}

// Describe returns a friendly description for an activity type. Unknown types
// fall back to the raw value.
func Describe(t models.ActivityType) string {
	if d, ok := activityDescriptions[t]; ok {
		return d
	}
	return string(t)
}
