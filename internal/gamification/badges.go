package gamification

import "github.com/lumina-edu/backend/internal/models"

// Badge requirement types. The catalog is seeded with these values; anything
// else in the badges table is ignored by the evaluator.
const (
	ReqTotalXP          = "total_xp"
	ReqQuizzesCompleted = "quizzes_completed"
	ReqPerfectQuizzes   = "perfect_quizzes"
	ReqMaterialsRead    = "materials_read"
	ReqStreakDays       = "streak_days"
	ReqClassesEnrolled  = "classes_enrolled"
)

// UserStats holds the aggregates badge requirements are evaluated against.
type UserStats struct {
	TotalXP          int64
	QuizzesCompleted int64
	PerfectQuizzes   int64
	MaterialsRead    int64
	LongestStreak    int64
	ClassesEnrolled  int64
}

// StatFor returns the aggregate measured by a requirement type, and whether
// the type is known. Streak badges measure the longest streak so an unlock
// never depends on the streak surviving until the next evaluation.
func (s UserStats) StatFor(requirementType string) (int64, bool) {
	switch requirementType {
	case ReqTotalXP:
		return s.TotalXP, true
	case ReqQuizzesCompleted:
		return s.QuizzesCompleted, true
	case ReqPerfectQuizzes:
		return s.PerfectQuizzes, true
	case ReqMaterialsRead:
		return s.MaterialsRead, true
	case ReqStreakDays:
		return s.LongestStreak, true
	case ReqClassesEnrolled:
		return s.ClassesEnrolled, true
	}
	return 0, false
}

// QualifyingBadges returns the subset of candidate badges whose requirement
// is met by the given stats. The caller is responsible for filtering out
// already-unlocked badges and for awarding the new ones.
func QualifyingBadges(stats UserStats, candidates []models.Badge) []models.Badge {
	var qualified []models.Badge
	for _, b := range candidates {
		value, ok := stats.StatFor(b.RequirementType)
		if !ok {
			continue
		}
		if value >= b.RequirementValue {
			qualified = append(qualified, b)
		}
	}
	return qualified
}
