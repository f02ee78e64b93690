package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type GeneratedQuiz struct {
	QuizTitle       string              `json:"quiz_title"`
	QuizDescription string              `json:"quiz_description"`
	Questions       []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	QuestionText  string            `json:"question_text"`
	QuestionOrder int               `json:"question_order"`
	Points        int               `json:"points"`
	Options       []GeneratedOption `json:"options"`
}

type GeneratedOption struct {
	OptionText  string `json:"option_text"`
	OptionOrder int    `json:"option_order"`
	IsCorrect   bool   `json:"is_correct"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

func ParseQuizResponse(responseBody string) (*GeneratedQuiz, error) {
	cleaned := stripCodeFences(responseBody)

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateQuiz(&quiz); err != nil {
		return nil, err
	}

	return &quiz, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateQuiz(quiz *GeneratedQuiz) error {
	var errs []string

	if quiz.QuizTitle == "" {
		errs = append(errs, "empty quiz_title")
	}
	if len(quiz.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in quiz"}}
	}
	if len(quiz.Questions) != 5 {
		log.Printf("WARNING: expected 5 questions, got %d", len(quiz.Questions))
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		qNum := i + 1

		if q.QuestionText == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question_text", qNum))
		}
		if q.QuestionOrder == 0 {
			q.QuestionOrder = qNum
		}
		if q.Points <= 0 {
			q.Points = 20
		}

		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
			continue
		}

		correctCount := 0
		for j := range q.Options {
			opt := &q.Options[j]
			if opt.OptionText == "" {
				errs = append(errs, fmt.Sprintf("question %d: option %d has empty text", qNum, j+1))
			}
			if opt.OptionOrder == 0 {
				opt.OptionOrder = j + 1
			}
			if opt.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			errs = append(errs, fmt.Sprintf("question %d: expected exactly 1 correct option, got %d", qNum, correctCount))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
