package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lumina-edu/backend/internal/models"
)

// QuizSystemPrompt instructs the model to produce a five-question quiz as a
// single JSON document matching the schema ParseQuizResponse expects.
func QuizSystemPrompt() string {
	return `Você é um assistente especializado em criar quizzes educacionais.
Sua tarefa é analisar os materiais fornecidos e criar um quiz semanal com 5 questões de múltipla escolha.

ESTRUTURA DAS QUESTÕES:
- Cada questão deve ter 4 alternativas
- Apenas UMA alternativa deve estar correta
- As questões devem ser claras e objetivas
- Cubra diferentes aspectos do conteúdo apresentado

Retorne sua resposta APENAS em formato JSON, sem texto adicional, seguindo exatamente esta estrutura:
{
  "quiz_title": "Título do Quiz",
  "quiz_description": "Descrição breve do que o quiz aborda",
  "questions": [
    {
      "question_text": "Texto da pergunta",
      "question_order": 1,
      "points": 20,
      "options": [
        {"option_text": "Alternativa A", "option_order": 1, "is_correct": false},
        {"option_text": "Alternativa B", "option_order": 2, "is_correct": true},
        {"option_text": "Alternativa C", "option_order": 3, "is_correct": false},
        {"option_text": "Alternativa D", "option_order": 4, "is_correct": false}
      ]
    }
  ]
}`
}

// BuildQuizUserPrompt assembles the material context for quiz generation.
func BuildQuizUserPrompt(className, periodLabel string, materials []models.Material) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Baseando-se nos seguintes %d materiais da turma %q (%s), crie um quiz semanal:\n\n",
		len(materials), className, periodLabel)

	for i, m := range materials {
		fmt.Fprintf(&sb, "MATERIAL %d: %s\n", i+1, m.Title)
		if m.Description != "" {
			fmt.Fprintf(&sb, "Descrição: %s\n", m.Description)
		}
		fmt.Fprintf(&sb, "Conteúdo:\n%s\n\n", truncate(m.Content, 4000))
	}

	sb.WriteString("Crie 5 questões de múltipla escolha que cubram os principais conceitos abordados nesses materiais.\n")
	sb.WriteString("As questões devem ser relevantes e educativas, cobrindo diferentes aspectos do conteúdo apresentado.")

	return sb.String()
}

const teacherAssistantPrompt = `Você é um assistente de IA especializado em ajudar professores a criar conteúdo educacional de qualidade.

Suas funções incluem:
- Ajudar a criar planos de aula estruturados
- Gerar exercícios e atividades pedagógicas
- Sugerir metodologias de ensino eficazes
- Criar materiais didáticos claros e envolventes
- Adaptar conteúdo para diferentes níveis de aprendizado
- Fornecer ideias criativas para tornar as aulas mais interessantes

Sempre seja claro, objetivo e educativo nas suas respostas. Use linguagem apropriada para educadores.`

const studentAssistantPrompt = `Você é um assistente de IA especializado em ajudar estudantes com seus estudos.

Suas funções incluem:
- Explicar conceitos de forma clara e didática
- Ajudar a resolver exercícios passo a passo
- Sugerir técnicas de estudo eficazes
- Criar resumos e mapas mentais
- Responder dúvidas sobre qualquer matéria
- Motivar e orientar o aprendizado

Sempre seja paciente, encorajador e didático. Explique conceitos de forma simples, usando exemplos práticos quando possível.`

// AssistantSystemPrompt returns the chat persona for the given user role.
func AssistantSystemPrompt(role string) string {
	if role == models.RoleTeacher {
		return teacherAssistantPrompt
	}
	return studentAssistantPrompt
}

// BuildChatTranscript flattens a conversation into a single user prompt.
// Earlier turns become labeled context; the final user message is the query.
func BuildChatTranscript(messages []models.ChatMessage) string {
	if len(messages) == 1 {
		return messages[0].Content
	}

	var sb strings.Builder
	sb.WriteString("Conversa até agora:\n\n")
	for _, m := range messages[:len(messages)-1] {
		label := "Estudante"
		if m.Role == "assistant" {
			label = "Assistente"
		}
		fmt.Fprintf(&sb, "%s: %s\n\n", label, m.Content)
	}
	fmt.Fprintf(&sb, "Nova mensagem: %s", messages[len(messages)-1].Content)
	return sb.String()
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
