package generator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lumina-edu/backend/internal/models"
)

func TestAssistantSystemPrompt_RoleSelectsPersona(t *testing.T) {
	teacher := AssistantSystemPrompt(models.RoleTeacher)
	if !strings.Contains(teacher, "professores") {
		t.Error("teacher persona should target educators")
	}

	student := AssistantSystemPrompt(models.RoleStudent)
	if !strings.Contains(student, "estudantes") {
		t.Error("student persona should target students")
	}

	// Unknown roles fall back to the student persona.
	if AssistantSystemPrompt("") != student {
		t.Error("empty role should use the student persona")
	}
}

func TestBuildQuizUserPrompt(t *testing.T) {
	materials := []models.Material{
		{Title: "Fotossíntese", Description: "Introdução", Content: "As plantas convertem luz em energia."},
		{Title: "Respiração Celular", Content: "A mitocôndria produz ATP."},
	}

	prompt := BuildQuizUserPrompt("Biologia 101", "última semana", materials)

	for _, want := range []string{"Biologia 101", "última semana", "Fotossíntese", "Respiração Celular", "2 materiais"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildQuizUserPrompt_TruncatesLongContent(t *testing.T) {
	materials := []models.Material{
		{Title: "Longo", Content: strings.Repeat("a", 10000)},
	}

	prompt := BuildQuizUserPrompt("Turma", "última semana", materials)
	if len(prompt) > 6000 {
		t.Errorf("prompt length %d, expected material content to be truncated", len(prompt))
	}
}

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	// "çã" is 2 bytes per rune; an odd byte limit lands mid-sequence.
	s := strings.Repeat("çã", 50)
	for _, max := range []int{7, 8, 9, 99} {
		got := truncate(s, max)
		if !utf8.ValidString(got) {
			t.Errorf("truncate(max=%d) produced invalid UTF-8: %q", max, got)
		}
		if len(got) > max+len("…") {
			t.Errorf("truncate(max=%d) returned %d bytes", max, len(got))
		}
	}

	if got := truncate("curto", 100); got != "curto" {
		t.Errorf("short string changed: %q", got)
	}
}

func TestBuildChatTranscript(t *testing.T) {
	single := []models.ChatMessage{{Role: "user", Content: "O que é ATP?"}}
	if got := BuildChatTranscript(single); got != "O que é ATP?" {
		t.Errorf("single message transcript = %q", got)
	}

	multi := []models.ChatMessage{
		{Role: "user", Content: "O que é ATP?"},
		{Role: "assistant", Content: "É a moeda energética da célula."},
		{Role: "user", Content: "E onde é produzido?"},
	}
	transcript := BuildChatTranscript(multi)
	if !strings.Contains(transcript, "É a moeda energética da célula.") {
		t.Error("transcript missing assistant turn")
	}
	if !strings.Contains(transcript, "Nova mensagem: E onde é produzido?") {
		t.Error("transcript missing final user message")
	}
}
