package quizzes

import "testing"

func TestScoreAnswers(t *testing.T) {
	correct := map[int64]int64{1: 11, 2: 22, 3: 33}
	points := map[int64]int{1: 20, 2: 20, 3: 20}

	tests := []struct {
		name      string
		answers   map[int64]int64
		wantScore int
		wantTotal int
	}{
		{"all correct", map[int64]int64{1: 11, 2: 22, 3: 33}, 60, 60},
		{"one wrong", map[int64]int64{1: 11, 2: 99, 3: 33}, 40, 60},
		{"all wrong", map[int64]int64{1: 12, 2: 23, 3: 34}, 0, 60},
		{"unanswered questions score zero", map[int64]int64{1: 11}, 20, 60},
		{"empty submission", map[int64]int64{}, 0, 60},
		{"answers to unknown questions are ignored", map[int64]int64{1: 11, 99: 11}, 20, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := scoreAnswers(correct, points, tt.answers)
			if score != tt.wantScore || total != tt.wantTotal {
				t.Errorf("scoreAnswers() = (%d, %d), want (%d, %d)", score, total, tt.wantScore, tt.wantTotal)
			}
		})
	}
}

func TestScoreAnswers_UnevenPoints(t *testing.T) {
	correct := map[int64]int64{1: 11, 2: 22}
	points := map[int64]int{1: 10, 2: 50}

	score, total := scoreAnswers(correct, points, map[int64]int64{2: 22})
	if score != 50 || total != 60 {
		t.Errorf("scoreAnswers() = (%d, %d), want (50, 60)", score, total)
	}
}
