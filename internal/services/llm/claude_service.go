// Package llm provides LLMService implementations wired into stage2's
// language-model variant. Grounded on the teacher's
// internal/services/llm/claude_service.go.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
)

// ClaudeService implements interfaces.LLMService against the Anthropic API.
type ClaudeService struct {
	logger    common.Logger
	client    anthropic.Client
	model     string
	timeout   time.Duration
	maxTokens int64
}

func NewClaudeService(cfg common.LLMConfig, apiKey string, logger common.Logger) (*ClaudeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude service: API key is required (set %s)", cfg.APIKeyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClaudeService{
		logger:    logger,
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		timeout:   timeout,
		maxTokens: 4096,
	}, nil
}

func convertMessages(messages []interfaces.Message) ([]anthropic.MessageParam, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}
	hasUser := false
	var system string
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			if system == "" {
				system = m.Content
			}
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			hasUser = true
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if !hasUser {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}
	return out, system, nil
}

func (s *ClaudeService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	claudeMessages, system, err := convertMessages(messages)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		Messages:  claudeMessages,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude chat: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("claude chat: empty response")
	}
	return sb.String(), nil
}

// Embed is not offered by the Anthropic messages API; callers that need
// embeddings for stage2's similarity variant should configure the gemini
// provider instead.
func (s *ClaudeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("claude service does not support embeddings")
}

func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.Chat(healthCtx, []interfaces.Message{{Role: "user", Content: "ping"}})
	if err != nil {
		return fmt.Errorf("claude health check: %w", err)
	}
	return nil
}

func (s *ClaudeService) GetMode() interfaces.LLMMode { return interfaces.LLMModeClaude }

func (s *ClaudeService) Close() error { return nil }
