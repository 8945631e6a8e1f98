package stage2

import (
	"context"
	"math"
	"strings"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
)

// Embedder is the subset of interfaces.LLMService the embedding analyzer
// needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingAnalyzer scores fit via cosine similarity between an embedding of
// the job text and an embedding of the profile's keyword/skill list.
// Grounded on interfaces.LLMService.Embed.
type EmbeddingAnalyzer struct {
	embedder Embedder
}

func NewEmbeddingAnalyzer(embedder Embedder) *EmbeddingAnalyzer {
	return &EmbeddingAnalyzer{embedder: embedder}
}

func (a *EmbeddingAnalyzer) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
	jobText := record.Title + " " + record.Description
	profileText := strings.Join(p.Keywords, " ") + " " + strings.Join(p.Skills, " ")

	jobVec, err := a.embedder.Embed(ctx, jobText)
	if err != nil {
		return Result{}, common.Transient("stage2.embedding.job", err)
	}
	profileVec, err := a.embedder.Embed(ctx, profileText)
	if err != nil {
		return Result{}, common.Transient("stage2.embedding.profile", err)
	}

	similarity, err := cosineSimilarity(jobVec, profileVec)
	if err != nil {
		return Result{}, common.AdapterDrift("stage2.embedding.compare", err)
	}

	score := (similarity + 1) / 2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return Result{
		SemanticScore: score,
		Rationale:     "embedding cosine similarity",
	}, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, errDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
