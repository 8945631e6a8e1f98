package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
)

// GeminiService implements interfaces.LLMService against Google's genai SDK.
// Grounded on the teacher's internal/services/llm/gemini_service.go. Unlike
// ClaudeService this also backs stage2's embedding-similarity variant, since
// the Anthropic messages API offers no embeddings endpoint.
type GeminiService struct {
	logger     common.Logger
	client     *genai.Client
	chatModel  string
	embedModel string
	timeout    time.Duration
}

func NewGeminiService(cfg common.LLMConfig, apiKey string, logger common.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini service: API key is required (set %s)", cfg.APIKeyEnv)
	}
	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini service: init client: %w", err)
	}

	return &GeminiService{
		logger:     logger,
		client:     client,
		chatModel:  chatModel,
		embedModel: "text-embedding-004",
		timeout:    timeout,
	}, nil
}

func convertToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}
	hasUser := false
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			if system == "" {
				system = m.Content
			}
			continue
		}
		role := genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		} else {
			hasUser = true
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(m.Content)},
		})
	}
	if !hasUser {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}
	return contents, system, nil
}

func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	contents, system, err := convertToGemini(messages)
	if err != nil {
		return "", err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.chatModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}

	var sb strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() > 0 {
				break
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini chat: empty response")
	}
	return sb.String(), nil
}

// Embed backs stage2's embedding-similarity analyzer variant (§9): it
// returns a vector representation of text for cosine-similarity comparison
// against profile keywords.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := s.client.Models.EmbedContent(timeoutCtx, s.embedModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini embed: empty response")
	}
	return resp.Embeddings[0].Values, nil
}

func (s *GeminiService) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := s.Chat(healthCtx, []interfaces.Message{{Role: "user", Content: "ping"}})
	if err != nil {
		return fmt.Errorf("gemini health check: %w", err)
	}
	return nil
}

func (s *GeminiService) GetMode() interfaces.LLMMode { return interfaces.LLMModeGemini }

func (s *GeminiService) Close() error { return nil }
