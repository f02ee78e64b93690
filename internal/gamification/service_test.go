package gamification

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsDuplicateDailyLogin(t *testing.T) {
	dup := errors.New(`pq: duplicate key value violates unique constraint "activity_log_daily_login_key"`)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"unrelated error", errors.New("connection refused"), false},
		{"other unique violation", errors.New(`pq: duplicate key value violates unique constraint "classes_code_key"`), false},
		{"daily login violation", dup, true},
		{"wrapped daily login violation", fmt.Errorf("log activity: %w", dup), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateDailyLogin(tt.err); got != tt.want {
				t.Errorf("isDuplicateDailyLogin(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
