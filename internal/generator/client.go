package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/lumina-edu/backend/internal/models"
)

// LLMClient is the interface all generator backends satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds quiz and chat methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("Generator using Claude CLI (local plan)")
	} else if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateQuiz asks the LLM for a five-question multiple-choice quiz covering
// the given materials and returns the parsed, validated result.
func (g *Generator) GenerateQuiz(ctx context.Context, className, periodLabel string, materials []models.Material) (*GeneratedQuiz, *LLMResponse, error) {
	systemPrompt := QuizSystemPrompt()
	userPrompt := BuildQuizUserPrompt(className, periodLabel, materials)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate quiz: %w", err)
	}

	quiz, err := ParseQuizResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse quiz response: %w", err)
	}

	return quiz, resp, nil
}

// Chat runs a single assistant turn with the role-appropriate persona.
func (g *Generator) Chat(ctx context.Context, role string, messages []models.ChatMessage) (string, error) {
	systemPrompt := AssistantSystemPrompt(role)
	userPrompt := BuildChatTranscript(messages)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return resp.Content, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockQuizJSON(),
		PromptTokens: 1200,
		OutputTokens: 1800,
	}, nil
}

func buildMockQuizJSON() string {
	topics := []string{
		"fotossíntese", "revolução industrial", "equações de segundo grau",
		"sistema solar", "verbos irregulares",
	}

	questions := "["
	for i := 0; i < 5; i++ {
		topic := topics[i%len(topics)]
		correct := (i % 4) + 1

		if i > 0 {
			questions += ","
		}

		options := "["
		for j := 1; j <= 4; j++ {
			if j > 1 {
				options += ","
			}
			options += fmt.Sprintf(`{"option_text":"[Mock] Alternativa %d sobre %s","option_order":%d,"is_correct":%t}`,
				j, topic, j, j == correct)
		}
		options += "]"

		questions += fmt.Sprintf(`{"question_text":"[Mock] Qual das alternativas descreve corretamente %s?","question_order":%d,"points":20,"options":%s}`,
			topic, i+1, options)
	}
	questions += "]"

	return fmt.Sprintf(`{"quiz_title":"[Mock] Quiz Semanal","quiz_description":"[Mock] Quiz gerado a partir dos materiais da turma.","questions":%s}`, questions)
}
