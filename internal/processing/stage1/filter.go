// Package stage1 implements component G: a cheap, deterministic, purely
// functional per-record evaluation. Grounded on the original source's
// job_filters.py allow-list/deny-list/seniority approach, re-expressed as
// Go token matching for determinism and speed.
package stage1

import (
	"strings"

	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
)

// DefaultThreshold is the stage1_threshold default (§4.G).
const DefaultThreshold = 0.5

// Result is the pure output of Evaluate: a score, its reasons, and the gate
// decision.
type Result struct {
	Score      float64
	Reasons    []string
	PassesGate bool
}

// Evaluator holds the gate threshold. The duplicate-check input
// (alreadyScored) is supplied by the caller (Processor) so Evaluate stays
// purely functional: it does not itself consult the Store.
type Evaluator struct {
	Threshold float64
}

func NewEvaluator(threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Evaluator{Threshold: threshold}
}

// Evaluate computes stage1_score and stage1_reasons for one record against
// one profile. alreadyScored reports whether another record with the same
// fingerprint has already reached stage1_scored or beyond in this Store, so
// the duplicate-check computation can run without Evaluate touching the
// Store itself.
func (e *Evaluator) Evaluate(record *jobrecord.JobRecord, p *profile.Profile, alreadyScored bool) Result {
	var reasons []string
	score := 0.0
	weight := 0.0

	titleScore, titleReason := e.scoreTitle(record.Title, p)
	score += titleScore
	weight += 1.0
	reasons = append(reasons, titleReason)

	locScore, locReason := e.scoreLocation(record.Location, p)
	score += locScore
	weight += 1.0
	reasons = append(reasons, locReason)

	urlValid := record.CanonicalURL != "" && !jobrecord.IsListingSelfLink(record.CanonicalURL, record.SourceSite)
	if !urlValid {
		reasons = append(reasons, "invalid_canonical_url")
		return Result{Score: 0, Reasons: reasons, PassesGate: false}
	}
	reasons = append(reasons, "valid_canonical_url")

	if alreadyScored {
		reasons = append(reasons, "duplicate_fingerprint")
		return Result{Score: 0, Reasons: reasons, PassesGate: false}
	}

	seniority := jobrecord.ClassifySeniority(record.Title)
	reasons = append(reasons, "seniority:"+string(seniority))
	if seniorityMismatch(seniority, p) {
		reasons = append(reasons, "seniority_mismatch")
		score *= 0.3
	}

	final := score / weight
	if final > 1 {
		final = 1
	}
	if final < 0 {
		final = 0
	}

	return Result{
		Score:      final,
		Reasons:    reasons,
		PassesGate: final >= e.Threshold,
	}
}

func (e *Evaluator) scoreTitle(title string, p *profile.Profile) (float64, string) {
	lower := strings.ToLower(title)
	for _, deny := range p.DenyTitleTokens {
		if strings.Contains(lower, strings.ToLower(deny)) {
			return 0.0, "title_denylisted:" + deny
		}
	}
	for _, kw := range p.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return 1.0, "title_keyword_match:" + kw
		}
	}
	return 0.2, "title_no_keyword_match"
}

func (e *Evaluator) scoreLocation(location string, p *profile.Profile) (float64, string) {
	lower := strings.ToLower(location)
	if p.AllowRemote && strings.Contains(lower, "remote") {
		return 1.0, "location_remote_wildcard"
	}
	for _, loc := range p.PreferredLocations {
		if strings.Contains(lower, strings.ToLower(loc)) {
			return 1.0, "location_match:" + loc
		}
	}
	if len(p.PreferredLocations) == 0 {
		return 0.6, "location_no_preference_set"
	}
	return 0.1, "location_mismatch"
}

func seniorityMismatch(level jobrecord.SeniorityLevel, p *profile.Profile) bool {
	if len(p.SeniorityPreferences) == 0 {
		return false
	}
	for _, pref := range p.SeniorityPreferences {
		if strings.EqualFold(pref, string(level)) {
			return false
		}
	}
	return level != jobrecord.SeniorityUnknown
}
