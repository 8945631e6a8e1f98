package stage2

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
)

// LLMClient is the subset of interfaces.LLMService the LLM-backed analyzer
// needs; kept narrow so tests can supply a stub without a real provider.
type LLMClient interface {
	Chat(ctx context.Context, messages []interfaces.Message) (string, error)
}

// LLMAnalyzer asks a chat-shaped model to score fit against a profile.
// Grounded on internal/services/llm/claude_service.go's Chat call.
type LLMAnalyzer struct {
	client LLMClient
}

func NewLLMAnalyzer(client LLMClient) *LLMAnalyzer {
	return &LLMAnalyzer{client: client}
}

type llmResponse struct {
	Score        float64  `json:"score"`
	Rationale    string   `json:"rationale"`
	Skills       []string `json:"skills"`
	Requirements []string `json:"requirements"`
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
	prompt := buildPrompt(record, p)
	raw, err := a.client.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return Result{}, common.Transient("stage2.llm.chat", err)
	}

	parsed, err := parseLLMResponse(raw)
	if err != nil {
		return Result{}, common.AdapterDrift("stage2.llm.parse", err)
	}

	return Result{
		SemanticScore:   parsed.Score,
		Rationale:       parsed.Rationale,
		ExtractedSkills: parsed.Skills,
		Requirements:    parsed.Requirements,
	}, nil
}

const systemPrompt = `You score how well a job posting matches a candidate profile.
Reply with a single JSON object: {"score": 0.0-1.0, "rationale": "...", "skills": ["..."], "requirements": ["..."]}.
Do not include any text outside the JSON object.`

func buildPrompt(record *jobrecord.JobRecord, p *profile.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Candidate keywords: %s\n", strings.Join(p.Keywords, ", "))
	fmt.Fprintf(&sb, "Candidate skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&sb, "Job title: %s\n", record.Title)
	fmt.Fprintf(&sb, "Job company: %s\n", record.Company)
	fmt.Fprintf(&sb, "Job description:\n%s\n", record.Description)
	return sb.String()
}

// parseLLMResponse tolerates a response wrapped in a markdown fence, since
// models frequently add one despite the system prompt's instruction not to.
func parseLLMResponse(raw string) (llmResponse, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var parsed llmResponse
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return llmResponse{}, fmt.Errorf("unparseable stage2 response: %w", err)
	}
	if parsed.Score < 0 || parsed.Score > 1 {
		return llmResponse{}, fmt.Errorf("stage2 score %v out of [0,1]", parsed.Score)
	}
	return parsed, nil
}
