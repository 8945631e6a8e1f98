// Package stage2 implements component H: slow, semantic per-job evaluation
// hiding three variants behind one Analyzer interface. Grounded on
// internal/services/llm/claude_service.go's Chat call for the LLM variant
// and internal/jobs/worker/job_processor.go's two-phase structure for the
// concurrency contract.
package stage2

import (
	"context"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
)

// Result is the pure output of Analyze.
type Result struct {
	SemanticScore   float64
	Rationale       string
	ExtractedSkills []string
	Requirements    []string
}

// Analyzer must be re-entrant and safe to call in parallel (§4.H). Failure
// is reported through common.Error with KindTransient (model unavailable)
// or KindAdapterDrift (malformed model output); the Processor treats both
// as "stage2 skipped" rather than failing the record.
type Analyzer interface {
	Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error)
}

// Cached wraps any Analyzer with an in-memory fingerprint cache so replays
// within a run are free, satisfying "implementations are expected to cache
// by fingerprint" (§4.H).
type Cached struct {
	inner Analyzer
	cache *cache
}

func NewCached(inner Analyzer, capacity int) *Cached {
	return &Cached{inner: inner, cache: newCache(capacity)}
}

func (c *Cached) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
	if r, ok := c.cache.get(record.Fingerprint); ok {
		return r, nil
	}
	result, err := c.inner.Analyze(ctx, record, p)
	if err != nil {
		return Result{}, err
	}
	c.cache.put(record.Fingerprint, result)
	return result, nil
}

// NewFromConfig selects the configured variant. An empty/"none" provider
// falls back to the heuristic variant rather than erroring, since stage2 is
// always optional relative to stage1 (spec.md's Stage2-outage scenario).
func NewFromConfig(cfg common.LLMConfig, svc LLMClient, embedder Embedder) Analyzer {
	switch cfg.DefaultProvider {
	case common.LLMProviderClaude:
		return NewLLMAnalyzer(svc)
	case common.LLMProviderGemini:
		if embedder != nil {
			return NewEmbeddingAnalyzer(embedder)
		}
		return NewLLMAnalyzer(svc)
	default:
		return NewHeuristicAnalyzer()
	}
}
