package stage2

import (
	"context"
	"strings"

	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
)

// HeuristicAnalyzer is the no-external-dependency deterministic fallback:
// keyword overlap between the profile's skills list and the job description,
// with no model call of any kind. It never returns an error, since it has
// no external dependency to fail on.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer { return &HeuristicAnalyzer{} }

func (a *HeuristicAnalyzer) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (Result, error) {
	text := strings.ToLower(record.Title + " " + record.Description)
	var matched []string
	for _, skill := range p.Skills {
		if strings.Contains(text, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}

	score := 0.0
	if len(p.Skills) > 0 {
		score = float64(len(matched)) / float64(len(p.Skills))
		if score > 1 {
			score = 1
		}
	}

	return Result{
		SemanticScore:   score,
		Rationale:       "heuristic skill overlap",
		ExtractedSkills: matched,
	}, nil
}
