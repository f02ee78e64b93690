package quizzes

import (
	"context"
	"log"
	"time"
)

// StartScheduleWorker generates quizzes for classes whose weekly schedule is
// due. It wakes hourly; each due class advances its own schedule when the
// generated quiz commits, so a failed class is retried on the next tick.
func (s *Service) StartScheduleWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	log.Println("[quizzes] Auto quiz worker started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[quizzes] Auto quiz worker shutting down")
			return
		case <-ticker.C:
			s.runDueGenerations(ctx)
		}
	}
}

func (s *Service) runDueGenerations(ctx context.Context) {
	due, err := s.store.DueSchedules()
	if err != nil {
		log.Printf("[quizzes] failed to load due schedules: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("[quizzes] %d class(es) due for quiz generation", len(due))

	for _, d := range due {
		if ctx.Err() != nil {
			return
		}
		genCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		resp, err := s.generateForClass(genCtx, d.ClassID, d.TeacherID)
		cancel()
		if err != nil {
			log.Printf("[quizzes] auto generation failed for class %d: %v", d.ClassID, err)
			continue
		}
		log.Printf("[quizzes] generated quiz %d (%q) for class %d from %d materials",
			resp.QuizID, resp.QuizTitle, d.ClassID, resp.MaterialsUsed)
	}
}
