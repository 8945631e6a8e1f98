package badgerstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "records.badger")
	s, err := Open(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRecord(title, company, url string) *jobrecord.JobRecord {
	return &jobrecord.JobRecord{
		Fingerprint:   jobrecord.Fingerprint(title, company, url, "", false),
		Title:         title,
		Company:       company,
		CanonicalURL:  url,
		SourceSite:    "eluta",
		SearchKeyword: "python developer",
		Status:        jobrecord.StatusScraped,
	}
}

func TestUpsertInsertsThenUpdatesThenUnchanged(t *testing.T) {
	s := openTestStore(t)
	rec := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")

	result, err := s.Upsert(rec)
	require.NoError(t, err)
	require.Equal(t, interfaces.Inserted, result)

	rec2 := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")
	rec2.SalaryText = "$100k"
	result, err = s.Upsert(rec2)
	require.NoError(t, err)
	require.Equal(t, interfaces.Updated, result)

	result, err = s.Upsert(rec2)
	require.NoError(t, err)
	require.Equal(t, interfaces.Unchanged, result)
}

func TestUpsertPreservesScrapedAtAndSearchKeyword(t *testing.T) {
	s := openTestStore(t)
	rec := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")
	_, err := s.Upsert(rec)
	require.NoError(t, err)

	stored, err := s.Get(rec.Fingerprint)
	require.NoError(t, err)
	firstScrapedAt := stored.ScrapedAt

	time.Sleep(2 * time.Millisecond)
	rec2 := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")
	rec2.SearchKeyword = "developer" // later keyword hit, should not override
	_, err = s.Upsert(rec2)
	require.NoError(t, err)

	stored2, err := s.Get(rec.Fingerprint)
	require.NoError(t, err)
	require.Equal(t, firstScrapedAt, stored2.ScrapedAt)
	require.Equal(t, "python developer", stored2.SearchKeyword)
	require.True(t, stored2.LastSeenAt.After(stored.LastSeenAt) || stored2.LastSeenAt.Equal(stored.LastSeenAt))
}

func TestAdvanceStatusRejectsMismatchedFrom(t *testing.T) {
	s := openTestStore(t)
	rec := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")
	_, err := s.Upsert(rec)
	require.NoError(t, err)

	err = s.AdvanceStatus(rec.Fingerprint, jobrecord.StatusStage1Scored, jobrecord.StatusProcessed, nil)
	require.Error(t, err)
}

func TestAdvanceStatusWritesScoresAtomically(t *testing.T) {
	s := openTestStore(t)
	rec := newRecord("Python Developer", "Acme Corp", "https://jobs.acme.com/1")
	_, err := s.Upsert(rec)
	require.NoError(t, err)

	score := 0.7
	err = s.AdvanceStatus(rec.Fingerprint, jobrecord.StatusScraped, jobrecord.StatusStage1Scored, &interfaces.ScoreUpdate{
		Stage1Score:   &score,
		Stage1Reasons: []string{"title_match"},
	})
	require.NoError(t, err)

	stored, err := s.Get(rec.Fingerprint)
	require.NoError(t, err)
	require.Equal(t, jobrecord.StatusStage1Scored, stored.Status)
	require.Equal(t, 0.7, stored.Stage1Score)
	require.NotNil(t, stored.Stage1At)
}

func TestQueryOrdersByLastSeenDesc(t *testing.T) {
	s := openTestStore(t)
	a := newRecord("Developer A", "Acme", "https://jobs.acme.com/a")
	b := newRecord("Developer B", "Acme", "https://jobs.acme.com/b")
	_, err := s.Upsert(a)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = s.Upsert(b)
	require.NoError(t, err)

	results, err := s.Query(interfaces.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, b.Fingerprint, results[0].Fingerprint)
}

func TestStatsCountsByStatus(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Upsert(newRecord("A", "Acme", "https://jobs.acme.com/a"))
	require.NoError(t, err)
	_, err = s.Upsert(newRecord("B", "Acme", "https://jobs.acme.com/b"))
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.ByStatus[jobrecord.StatusScraped])
}
