package generator

import (
	"encoding/json"
	"strings"
	"testing"
)

func validQuizJSON(questionCount int) string {
	quiz := GeneratedQuiz{
		QuizTitle:       "Quiz Semanal de Biologia",
		QuizDescription: "Questões sobre os materiais da semana",
		Questions:       make([]GeneratedQuestion, questionCount),
	}

	for i := 0; i < questionCount; i++ {
		options := make([]GeneratedOption, 4)
		for j := 0; j < 4; j++ {
			options[j] = GeneratedOption{
				OptionText:  "Alternativa sobre o conceito apresentado",
				OptionOrder: j + 1,
				IsCorrect:   j == i%4,
			}
		}
		quiz.Questions[i] = GeneratedQuestion{
			QuestionText:  "Qual das alternativas descreve corretamente o conceito?",
			QuestionOrder: i + 1,
			Points:        20,
			Options:       options,
		}
	}

	data, _ := json.Marshal(quiz)
	return string(data)
}

func TestParseQuizResponse_ValidJSON(t *testing.T) {
	quiz, err := ParseQuizResponse(validQuizJSON(5))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if quiz.QuizTitle == "" {
		t.Error("empty quiz title")
	}
	if len(quiz.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
	}
}

func TestParseQuizResponse_MarkdownFences(t *testing.T) {
	input := "```json\n" + validQuizJSON(5) + "\n```"

	quiz, err := ParseQuizResponse(input)
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(quiz.Questions))
	}
}

func TestParseQuizResponse_InvalidJSON(t *testing.T) {
	if _, err := ParseQuizResponse("the model apologized instead of answering"); err == nil {
		t.Fatal("expected parse error for non-JSON response")
	}
}

func TestParseQuizResponse_WrongOptionCount(t *testing.T) {
	quiz := GeneratedQuiz{
		QuizTitle: "Quiz",
		Questions: []GeneratedQuestion{
			{
				QuestionText: "Pergunta?",
				Options: []GeneratedOption{
					{OptionText: "A", OptionOrder: 1, IsCorrect: true},
					{OptionText: "B", OptionOrder: 2},
					{OptionText: "C", OptionOrder: 3},
				},
			},
		},
	}
	data, _ := json.Marshal(quiz)

	_, err := ParseQuizResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for 3 options")
	}
	if !strings.Contains(err.Error(), "expected 4 options") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseQuizResponse_MultipleCorrectOptions(t *testing.T) {
	quiz := GeneratedQuiz{
		QuizTitle: "Quiz",
		Questions: []GeneratedQuestion{
			{
				QuestionText: "Pergunta?",
				Options: []GeneratedOption{
					{OptionText: "A", OptionOrder: 1, IsCorrect: true},
					{OptionText: "B", OptionOrder: 2, IsCorrect: true},
					{OptionText: "C", OptionOrder: 3},
					{OptionText: "D", OptionOrder: 4},
				},
			},
		},
	}
	data, _ := json.Marshal(quiz)

	_, err := ParseQuizResponse(string(data))
	if err == nil {
		t.Fatal("expected validation error for two correct options")
	}
	if !strings.Contains(err.Error(), "exactly 1 correct option") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseQuizResponse_NoCorrectOption(t *testing.T) {
	quiz := GeneratedQuiz{
		QuizTitle: "Quiz",
		Questions: []GeneratedQuestion{
			{
				QuestionText: "Pergunta?",
				Options: []GeneratedOption{
					{OptionText: "A", OptionOrder: 1},
					{OptionText: "B", OptionOrder: 2},
					{OptionText: "C", OptionOrder: 3},
					{OptionText: "D", OptionOrder: 4},
				},
			},
		},
	}
	data, _ := json.Marshal(quiz)

	if _, err := ParseQuizResponse(string(data)); err == nil {
		t.Fatal("expected validation error for zero correct options")
	}
}

func TestParseQuizResponse_FillsDefaults(t *testing.T) {
	quiz := GeneratedQuiz{
		QuizTitle: "Quiz",
		Questions: []GeneratedQuestion{
			{
				QuestionText: "Pergunta sem ordem nem pontos?",
				Options: []GeneratedOption{
					{OptionText: "A", IsCorrect: true},
					{OptionText: "B"},
					{OptionText: "C"},
					{OptionText: "D"},
				},
			},
		},
	}
	data, _ := json.Marshal(quiz)

	parsed, err := ParseQuizResponse(string(data))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	q := parsed.Questions[0]
	if q.QuestionOrder != 1 {
		t.Errorf("question_order defaulted to %d, want 1", q.QuestionOrder)
	}
	if q.Points != 20 {
		t.Errorf("points defaulted to %d, want 20", q.Points)
	}
	for i, opt := range q.Options {
		if opt.OptionOrder != i+1 {
			t.Errorf("option %d order defaulted to %d, want %d", i, opt.OptionOrder, i+1)
		}
	}
}

func TestMockQuizIsValid(t *testing.T) {
	quiz, err := ParseQuizResponse(buildMockQuizJSON())
	if err != nil {
		t.Fatalf("mock quiz must pass validation, got: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Errorf("mock quiz has %d questions, want 5", len(quiz.Questions))
	}
}
