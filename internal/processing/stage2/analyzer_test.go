package stage2

import (
	"context"
	"errors"
	"testing"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicAnalyzerScoresSkillOverlap(t *testing.T) {
	a := NewHeuristicAnalyzer()
	p := &profile.Profile{Skills: []string{"python", "kubernetes", "go"}}
	record := &jobrecord.JobRecord{Title: "Python Developer", Description: "work with kubernetes clusters"}

	result, err := a.Analyze(context.Background(), record, p)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, result.SemanticScore, 0.0001)
	assert.ElementsMatch(t, []string{"python", "kubernetes"}, result.ExtractedSkills)
}

type stubLLMClient struct {
	response string
	err      error
}

func (s stubLLMClient) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return s.response, s.err
}

func TestLLMAnalyzerParsesJSONResponse(t *testing.T) {
	client := stubLLMClient{response: `{"score": 0.8, "rationale": "strong match", "skills": ["go"], "requirements": ["5 years"]}`}
	a := NewLLMAnalyzer(client)

	result, err := a.Analyze(context.Background(), &jobrecord.JobRecord{Title: "Go Engineer"}, &profile.Profile{})
	require.NoError(t, err)
	assert.Equal(t, 0.8, result.SemanticScore)
	assert.Equal(t, []string{"go"}, result.ExtractedSkills)
}

func TestLLMAnalyzerToleratesMarkdownFence(t *testing.T) {
	client := stubLLMClient{response: "```json\n{\"score\": 0.5, \"rationale\": \"ok\"}\n```"}
	a := NewLLMAnalyzer(client)

	result, err := a.Analyze(context.Background(), &jobrecord.JobRecord{}, &profile.Profile{})
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.SemanticScore)
}

func TestLLMAnalyzerMalformedOutputIsAdapterDrift(t *testing.T) {
	client := stubLLMClient{response: "not json at all"}
	a := NewLLMAnalyzer(client)

	_, err := a.Analyze(context.Background(), &jobrecord.JobRecord{}, &profile.Profile{})
	require.Error(t, err)
	assert.Equal(t, common.KindAdapterDrift, common.KindOf(err))
}

func TestLLMAnalyzerUnavailableIsTransient(t *testing.T) {
	client := stubLLMClient{err: errors.New("connection refused")}
	a := NewLLMAnalyzer(client)

	_, err := a.Analyze(context.Background(), &jobrecord.JobRecord{}, &profile.Profile{})
	require.Error(t, err)
	assert.Equal(t, common.KindTransient, common.KindOf(err))
}

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vectors[text], nil
}

func TestEmbeddingAnalyzerCosineSimilarity(t *testing.T) {
	record := &jobrecord.JobRecord{Title: "job", Description: ""}
	p := &profile.Profile{Keywords: []string{"profile"}}
	embedder := stubEmbedder{vectors: map[string][]float32{
		"job ":     {1, 0},
		"profile ": {1, 0},
	}}
	a := NewEmbeddingAnalyzer(embedder)

	result, err := a.Analyze(context.Background(), record, p)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.SemanticScore, 0.0001)
}

func TestCachedAnalyzerReturnsCachedResultOnReplay(t *testing.T) {
	calls := 0
	inner := analyzerFunc(func(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
		calls++
		return Result{SemanticScore: 0.7}, nil
	})
	cached := NewCached(inner, 10)
	record := &jobrecord.JobRecord{Fingerprint: "abc123"}

	r1, err := cached.Analyze(context.Background(), record, &profile.Profile{})
	require.NoError(t, err)
	r2, err := cached.Analyze(context.Background(), record, &profile.Profile{})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, r1, r2)
}

type analyzerFunc func(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error)

func (f analyzerFunc) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
	return f(ctx, record, p)
}
