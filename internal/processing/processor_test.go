package processing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/processing/stage1"
	"github.com/huntline/huntline/internal/processing/stage2"
	"github.com/huntline/huntline/internal/profile"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*jobrecord.JobRecord
}

func newFakeStore(records ...*jobrecord.JobRecord) *fakeStore {
	s := &fakeStore{records: make(map[string]*jobrecord.JobRecord)}
	for _, r := range records {
		s.records[r.Fingerprint] = r
	}
	return s
}

func (s *fakeStore) Upsert(record *jobrecord.JobRecord) (interfaces.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Fingerprint] = record
	return interfaces.Inserted, nil
}

func (s *fakeStore) AdvanceStatus(fingerprint string, from, to jobrecord.Status, scores *interfaces.ScoreUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[fingerprint]
	if !ok || r.Status != from {
		return fmt.Errorf("cas failed for %s", fingerprint)
	}
	r.Status = to
	if scores != nil {
		if scores.Stage1Score != nil {
			r.Stage1Score = *scores.Stage1Score
		}
		if scores.Stage1Reasons != nil {
			r.Stage1Reasons = scores.Stage1Reasons
		}
		if scores.Stage2Score != nil {
			r.Stage2Score = scores.Stage2Score
		}
		if scores.FinalScore != nil {
			r.FinalScore = scores.FinalScore
		}
	}
	return nil
}

func (s *fakeStore) Get(fingerprint string) (*jobrecord.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[fingerprint], nil
}

func (s *fakeStore) Query(filter interfaces.QueryFilter) ([]*jobrecord.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*jobrecord.JobRecord
	for _, r := range s.records {
		if len(filter.Statuses) > 0 {
			match := false
			for _, st := range filter.Statuses {
				if r.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) Stats() (interfaces.Stats, error) { return interfaces.Stats{}, nil }

func (s *fakeStore) Close() error { return nil }

func testRunContext(store interfaces.Store) *interfaces.RunContext {
	logger := common.NewLogger(common.LoggingConfig{Output: []string{"stdout"}})
	return interfaces.NewRunContext(context.Background(), store, logger, time.Time{})
}

func TestProcessorAdvancesGatePassingRecordToProcessed(t *testing.T) {
	record := &jobrecord.JobRecord{
		Fingerprint:  "fp1",
		Title:        "Python Developer",
		Location:     "Remote",
		CanonicalURL: "https://jobs.acme.com/1",
		Status:       jobrecord.StatusScraped,
	}
	store := newFakeStore(record)
	rc := testRunContext(store)

	p := New(stage1.NewEvaluator(stage1.DefaultThreshold), stage2.NewHeuristicAnalyzer())
	prof := &profile.Profile{Keywords: []string{"python"}, AllowRemote: true, Skills: []string{"python"}}

	summary, err := p.Process(rc, prof, Limits{CPUWorkers: 2, Stage2Workers: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 1, summary.Stage1Scored)
	assert.EqualValues(t, 1, summary.Processed)

	got, _ := store.Get("fp1")
	assert.Equal(t, jobrecord.StatusProcessed, got.Status)
	require.NotNil(t, got.FinalScore)
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(ctx context.Context, record *jobrecord.JobRecord, p *profile.Profile) (stage2.Result, error) {
	return stage2.Result{}, common.Transient("test.stage2", fmt.Errorf("model unavailable"))
}

func TestProcessorLeavesRecordAtStage1ScoredOnStage2Outage(t *testing.T) {
	record := &jobrecord.JobRecord{
		Fingerprint:  "fp2",
		Title:        "Python Developer",
		Location:     "Remote",
		CanonicalURL: "https://jobs.acme.com/2",
		Status:       jobrecord.StatusScraped,
	}
	store := newFakeStore(record)
	rc := testRunContext(store)

	p := New(stage1.NewEvaluator(stage1.DefaultThreshold), failingAnalyzer{})
	prof := &profile.Profile{Keywords: []string{"python"}, AllowRemote: true}

	summary, err := p.Process(rc, prof, Limits{CPUWorkers: 2, Stage2Workers: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Processed)
	assert.EqualValues(t, 1, summary.Stage2Skipped)

	got, _ := store.Get("fp2")
	assert.Equal(t, jobrecord.StatusStage1Scored, got.Status)
}
