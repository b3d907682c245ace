package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"cook-bot/internal/domain/port"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

const promptTemplate = "You are a microwave cooking assistant.\n" +
	"Provide instructions in this EXACT format and DO NOT mention watts.\n\n" +
	"Example:\n" +
	"Food: Hot Dog\n" +
	"Temperature: 75°C\n" +
	"Time: 1.5 minutes\n\n" +
	"Food: %s\n"

// Config параметры обращения к сервису генерации.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig возвращает настройки, с которыми подобран промпт.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		MaxTokens:   60,
		Temperature: 0.15,
		Timeout:     15 * time.Second,
	}
}

// GroqGenerator получает инструкции через OpenAI-совместимый API Groq.
type GroqGenerator struct {
	client *openai.Client
	cfg    Config
}

// NewGroqGenerator создаёт генератор.
func NewGroqGenerator(cfg Config) (*GroqGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("groq api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &GroqGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Prompt собирает промпт для продукта.
func Prompt(label string) string {
	return fmt.Sprintf(promptTemplate, label)
}

// Generate запрашивает текст с температурой и временем для label.
func (g *GroqGenerator) Generate(ctx context.Context, label string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(label)},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ port.InstructionGenerator = (*GroqGenerator)(nil)
