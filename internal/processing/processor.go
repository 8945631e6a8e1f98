// Package processing drives the two-stage pipeline end-to-end for a
// profile (component I). Grounded on the two-phase fan-out-then-gate
// structure of internal/jobs/processor/processor.go and
// internal/jobs/worker/job_processor.go, re-expressed with
// golang.org/x/sync/errgroup bounded worker pools instead of the teacher's
// raw sync.WaitGroup, since a single record's stage1/stage2 failure must
// not terminate its pool (§4.I, §5).
package processing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/processing/stage1"
	"github.com/huntline/huntline/internal/processing/stage2"
	"github.com/huntline/huntline/internal/profile"
)

// Limits bounds one process() invocation (§4.I).
type Limits struct {
	CPUWorkers      int
	Stage2Workers   int
	MaxRecords      int
	Stage1Threshold float64
	Stage1Weight    float64
	Stage2Weight    float64
}

// Summary counts per terminal state and timing per stage, persisted to the
// run log by the caller.
type Summary struct {
	Stage1Scored   int64
	Stage1Skipped  int64
	Stage2Analyzed int64
	Stage2Skipped  int64
	Processed      int64
	AdapterDrifts  int64
	Stage1Duration time.Duration
	Stage2Duration time.Duration
}

// Processor ties Store, Stage1 Evaluator, and Stage2 Analyzer into one run.
type Processor struct {
	evaluator *stage1.Evaluator
	analyzer  stage2.Analyzer
}

func New(evaluator *stage1.Evaluator, analyzer stage2.Analyzer) *Processor {
	return &Processor{evaluator: evaluator, analyzer: analyzer}
}

// Process runs the full pipeline for one profile within rc, per the §4.I
// algorithm: query scraped/stage1_scored records, fan into Stage1 at
// cpu_workers concurrency, gate on passes_gate, fan into Stage2 at
// stage2_workers concurrency, blend scores, advance to processed.
func (p *Processor) Process(rc *interfaces.RunContext, prof *profile.Profile, limits Limits) (Summary, error) {
	var summary Summary

	stage1Start := time.Now()
	pending, err := rc.Store.Query(interfaces.QueryFilter{
		Statuses: []jobrecord.Status{jobrecord.StatusScraped},
		Limit:    limits.MaxRecords,
	})
	if err != nil {
		return summary, common.Transient("processor.query_scraped", err)
	}

	seen := make(map[string]bool)
	existing, err := rc.Store.Query(interfaces.QueryFilter{
		Statuses: []jobrecord.Status{jobrecord.StatusStage1Scored, jobrecord.StatusProcessed},
	})
	if err != nil {
		return summary, common.Transient("processor.query_scored", err)
	}
	for _, r := range existing {
		seen[r.Fingerprint] = true
	}

	threshold := limits.Stage1Threshold
	if threshold <= 0 {
		threshold = stage1.DefaultThreshold
	}

	gatePassed, err := p.runStage1(rc, prof, pending, seen, limits, &summary)
	if err != nil && common.KindOf(err) != common.KindCancelled {
		return summary, err
	}
	summary.Stage1Duration = time.Since(stage1Start)

	// A Stage2-only run (or a resumed run) may find records already at
	// stage1_scored from a prior invocation; fold in those that clear the
	// gate too, skipping any fingerprint this run's own Stage1 pass already
	// queued. passes_gate isn't persisted, so re-derive it from the stored
	// stage1_score against the current threshold.
	inGate := make(map[string]bool, len(gatePassed))
	for _, r := range gatePassed {
		inGate[r.Fingerprint] = true
	}
	stage1Only, err := rc.Store.Query(interfaces.QueryFilter{
		Statuses: []jobrecord.Status{jobrecord.StatusStage1Scored},
		MinScore: &threshold,
	})
	if err == nil {
		for _, r := range stage1Only {
			if !inGate[r.Fingerprint] {
				gatePassed = append(gatePassed, r)
			}
		}
	}

	stage2Start := time.Now()
	if err := p.runStage2(rc, prof, gatePassed, limits, &summary); err != nil && common.KindOf(err) != common.KindCancelled {
		return summary, err
	}
	summary.Stage2Duration = time.Since(stage2Start)

	return summary, nil
}

func (p *Processor) runStage1(rc *interfaces.RunContext, prof *profile.Profile, records []*jobrecord.JobRecord, seen map[string]bool, limits Limits, summary *Summary) ([]*jobrecord.JobRecord, error) {
	workers := limits.CPUWorkers
	if workers <= 0 {
		workers = 4
	}
	g, ctx := errgroup.WithContext(rc.Context)
	sem := make(chan struct{}, workers)
	var gatePassed []*jobrecord.JobRecord
	var mu sync.Mutex

	for _, record := range records {
		record := record
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-ctx.Done():
				return common.Cancelled("processor.stage1")
			default:
			}

			alreadyScored := seen[record.Fingerprint]
			result := p.evaluator.Evaluate(record, prof, alreadyScored)

			update := &interfaces.ScoreUpdate{
				Stage1Score:   &result.Score,
				Stage1Reasons: result.Reasons,
			}
			if err := rc.Store.AdvanceStatus(record.Fingerprint, jobrecord.StatusScraped, jobrecord.StatusStage1Scored, update); err != nil {
				rc.Counters.Incr("stage1_skipped")
				return nil
			}
			rc.Counters.Incr("stage1_scored")

			if result.PassesGate && !alreadyScored {
				mu.Lock()
				gatePassed = append(gatePassed, record)
				mu.Unlock()
			}
			return nil
		})
	}

	err := g.Wait()
	summary.Stage1Scored = rc.Counters.Get("stage1_scored")
	summary.Stage1Skipped = rc.Counters.Get("stage1_skipped")
	return gatePassed, err
}

func (p *Processor) runStage2(rc *interfaces.RunContext, prof *profile.Profile, records []*jobrecord.JobRecord, limits Limits, summary *Summary) error {
	workers := limits.Stage2Workers
	if workers <= 0 {
		workers = 2
	}
	stage1Weight := limits.Stage1Weight
	stage2Weight := limits.Stage2Weight
	if stage1Weight == 0 && stage2Weight == 0 {
		stage1Weight, stage2Weight = 0.4, 0.6
	}

	g, ctx := errgroup.WithContext(rc.Context)
	sem := make(chan struct{}, workers)

	for _, record := range records {
		record := record
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			select {
			case <-ctx.Done():
				return common.Cancelled("processor.stage2")
			default:
			}

			result, err := p.analyzer.Analyze(ctx, record, prof)
			if err != nil {
				kind := common.KindOf(err)
				if kind == common.KindAdapterDrift {
					rc.Counters.Incr("adapter_drift")
				}
				rc.Counters.Incr("stage2_skipped")
				return nil
			}

			final := stage1Weight*record.Stage1Score + stage2Weight*result.SemanticScore
			update := &interfaces.ScoreUpdate{
				Stage2Score: &result.SemanticScore,
				FinalScore:  &final,
			}
			if err := rc.Store.AdvanceStatus(record.Fingerprint, jobrecord.StatusStage1Scored, jobrecord.StatusProcessed, update); err != nil {
				rc.Counters.Incr("stage2_skipped")
				return nil
			}
			rc.Counters.Incr("processed")
			return nil
		})
	}

	err := g.Wait()
	summary.Stage2Analyzed = rc.Counters.Get("processed")
	summary.Stage2Skipped = rc.Counters.Get("stage2_skipped")
	summary.Processed = rc.Counters.Get("processed")
	summary.AdapterDrifts = rc.Counters.Get("adapter_drift")
	return err
}
