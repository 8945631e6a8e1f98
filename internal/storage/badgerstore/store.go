// Package badgerstore implements component B (Store) on top of an embedded
// Badger database via badgerhold, grounded on the teacher's
// internal/storage/badger package. Unlike the teacher's own
// UpdateProgressCountersAtomic (a documented non-atomic read-modify-write,
// see its comment in job_storage.go), every mutation here runs inside a
// single Badger transaction via badgerhold's Txn* methods, so upsert and
// status advance are genuinely linearizable per fingerprint.
package badgerstore

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/timshannon/badgerhold/v4"
)

// Store is the badgerhold-backed implementation of interfaces.Store, one
// instance per profile directory.
type Store struct {
	db     *badgerhold.Store
	logger common.Logger
}

// Open opens (creating if absent) the badgerhold database at path.
func Open(path string, logger common.Logger) (*Store, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil

	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, common.Transient("badgerstore.Open", err)
	}
	s := &Store{db: db, logger: logger}
	if err := s.EnsureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert merges record into the store keyed by Fingerprint, per the
// field-wise merge policy in §4.B: new non-empty values overwrite old empty
// values, new empty values never overwrite old non-empty values, scoring
// fields are left untouched by this call (Processor advances them through
// AdvanceStatus instead), scraped_at is preserved from first insert, and
// last_seen_at is refreshed on every call.
func (s *Store) Upsert(record *jobrecord.JobRecord) (interfaces.UpsertResult, error) {
	if err := record.Validate(); err != nil {
		return interfaces.Unchanged, err
	}

	result := interfaces.Inserted
	now := time.Now().UTC()

	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		var existing jobrecord.JobRecord
		getErr := s.db.TxnGet(txn, record.Fingerprint, &existing)
		switch {
		case errors.Is(getErr, badgerhold.ErrNotFound):
			record.ScrapedAt = firstNonZero(record.ScrapedAt, now)
			record.LastSeenAt = now
			if record.Status == "" {
				record.Status = jobrecord.StatusScraped
			}
			result = interfaces.Inserted
			return s.db.TxnInsert(txn, record.Fingerprint, record)
		case getErr != nil:
			return getErr
		}

		merged, changed := mergeDiscoveryFields(existing, *record)
		merged.LastSeenAt = now
		result = interfaces.Updated
		if !changed {
			result = interfaces.Unchanged
		}
		return s.db.TxnUpdate(txn, record.Fingerprint, merged)
	})
	if err != nil {
		return interfaces.Unchanged, common.Transient("Store.Upsert", err)
	}
	return result, nil
}

// mergeDiscoveryFields applies the field-wise merge policy for the fields
// Scraper owns; Processor-owned scoring fields and status are never touched
// here.
func mergeDiscoveryFields(existing, incoming jobrecord.JobRecord) (jobrecord.JobRecord, bool) {
	merged := existing
	changed := false

	set := func(dst *string, a, b string) {
		v := preferNonEmpty(a, b)
		if v != *dst {
			changed = true
		}
		*dst = v
	}

	set(&merged.Title, existing.Title, incoming.Title)
	set(&merged.Company, existing.Company, incoming.Company)
	set(&merged.Location, existing.Location, incoming.Location)
	set(&merged.CanonicalURL, existing.CanonicalURL, incoming.CanonicalURL)
	set(&merged.SourceSite, existing.SourceSite, incoming.SourceSite)
	// search_keyword and search_location are frozen on first insert (spec §9
	// open question (a)): the stored value wins whenever it is non-empty.
	set(&merged.SearchKeyword, incoming.SearchKeyword, existing.SearchKeyword)
	set(&merged.SearchLocation, incoming.SearchLocation, existing.SearchLocation)
	set(&merged.SalaryText, existing.SalaryText, incoming.SalaryText)
	set(&merged.Summary, existing.Summary, incoming.Summary)
	set(&merged.Description, existing.Description, incoming.Description)
	set(&merged.JobType, existing.JobType, incoming.JobType)
	set(&merged.PostedText, existing.PostedText, incoming.PostedText)
	set(&merged.ExperienceLevel, existing.ExperienceLevel, incoming.ExperienceLevel)

	if len(incoming.ExtractedSkills) > 0 && len(existing.ExtractedSkills) == 0 {
		merged.ExtractedSkills = incoming.ExtractedSkills
		changed = true
	}
	if len(incoming.Requirements) > 0 && len(existing.Requirements) == 0 {
		merged.Requirements = incoming.Requirements
		changed = true
	}
	if incoming.ATSSystemTag != "" && incoming.ATSSystemTag != jobrecord.ATSUnknown && incoming.ATSSystemTag != existing.ATSSystemTag {
		merged.ATSSystemTag = incoming.ATSSystemTag
		changed = true
	}
	return merged, changed
}

func preferNonEmpty(existing, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

func firstNonZero(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t
}

// AdvanceStatus compare-and-swaps status from `from` to `to`, optionally
// writing score fields in the same transaction.
func (s *Store) AdvanceStatus(fingerprint string, from, to jobrecord.Status, scores *interfaces.ScoreUpdate) error {
	if !jobrecord.IsLegalTransition(from, to) {
		return common.Invalid("Store.AdvanceStatus", fmt.Errorf("illegal transition %s -> %s", from, to))
	}

	err := s.db.Badger().Update(func(txn *badger.Txn) error {
		var existing jobrecord.JobRecord
		if err := s.db.TxnGet(txn, fingerprint, &existing); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return errNotFound
			}
			return err
		}
		if existing.Status != from {
			return errIllegalTransition
		}

		existing.Status = to
		now := time.Now().UTC()
		applyScores(&existing, scores, to, now)

		return s.db.TxnUpdate(txn, fingerprint, existing)
	})

	switch {
	case errors.Is(err, errNotFound):
		return common.Invalid("Store.AdvanceStatus", err)
	case errors.Is(err, errIllegalTransition):
		return common.Invalid("Store.AdvanceStatus", err)
	case err != nil:
		return common.Transient("Store.AdvanceStatus", err)
	}
	return nil
}

func applyScores(r *jobrecord.JobRecord, scores *interfaces.ScoreUpdate, to jobrecord.Status, now time.Time) {
	if scores == nil {
		return
	}
	if scores.Stage1Score != nil {
		r.Stage1Score = *scores.Stage1Score
		r.Stage1Reasons = scores.Stage1Reasons
		r.Stage1At = timePtr(now)
	}
	if scores.Stage2Score != nil {
		r.Stage2Score = scores.Stage2Score
		r.Stage2At = timePtr(now)
	}
	if scores.FinalScore != nil {
		r.FinalScore = scores.FinalScore
	}
	if to == jobrecord.StatusProcessed {
		r.ProcessedAt = timePtr(now)
	}
	if to == jobrecord.StatusScraped {
		// Maintenance reset: preserve fingerprint, clear scoring state.
		r.Stage1Score = 0
		r.Stage1Reasons = nil
		r.Stage2Score = nil
		r.FinalScore = nil
		r.Stage1At = nil
		r.Stage2At = nil
		r.ProcessedAt = nil
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func (s *Store) Get(fingerprint string) (*jobrecord.JobRecord, error) {
	var r jobrecord.JobRecord
	err := s.db.Get(fingerprint, &r)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, common.Invalid("Store.Get", errNotFound)
	}
	if err != nil {
		return nil, common.Transient("Store.Get", err)
	}
	return &r, nil
}

// Query returns a snapshot read ordered by last_seen_at desc, with
// fingerprint as the stable tiebreaker for equal timestamps.
func (s *Store) Query(filter interfaces.QueryFilter) ([]*jobrecord.JobRecord, error) {
	var query *badgerhold.Query
	switch {
	case len(filter.Statuses) > 0:
		values := make([]interface{}, len(filter.Statuses))
		for i, st := range filter.Statuses {
			values[i] = st
		}
		query = badgerhold.Where("Status").In(values...)
	case filter.Site != "":
		query = badgerhold.Where("SourceSite").Eq(filter.Site)
	default:
		query = badgerhold.Where("Fingerprint").Ne("")
	}
	if filter.Site != "" && len(filter.Statuses) > 0 {
		query = query.And("SourceSite").Eq(filter.Site)
	}
	if filter.SearchKeyword != "" {
		query = query.And("SearchKeyword").Eq(filter.SearchKeyword)
	}
	if !filter.Since.IsZero() {
		query = query.And("LastSeenAt").Ge(filter.Since)
	}

	var records []jobrecord.JobRecord
	if err := s.db.Find(&records, query); err != nil {
		return nil, common.Transient("Store.Query", err)
	}

	if filter.MinScore != nil {
		records = filterByScore(records, *filter.MinScore, true)
	}
	if filter.MaxScore != nil {
		records = filterByScore(records, *filter.MaxScore, false)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].LastSeenAt.Equal(records[j].LastSeenAt) {
			return records[i].LastSeenAt.After(records[j].LastSeenAt)
		}
		return records[i].Fingerprint < records[j].Fingerprint
	})

	if filter.Offset > 0 && filter.Offset < len(records) {
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	out := make([]*jobrecord.JobRecord, len(records))
	for i := range records {
		r := records[i]
		out[i] = &r
	}
	return out, nil
}

func filterByScore(records []jobrecord.JobRecord, bound float64, isMin bool) []jobrecord.JobRecord {
	out := records[:0]
	for _, r := range records {
		score := r.FinalScore
		if score == nil {
			score = r.Stage2Score
		}
		if score == nil && r.Status == jobrecord.StatusStage1Scored {
			// At stage1_scored neither final_score nor stage2_score exists
			// yet; gate re-derivation (the Processor's Stage2-only query)
			// needs stage1_score itself.
			s := r.Stage1Score
			score = &s
		}
		if score == nil {
			continue
		}
		if isMin && *score < bound {
			continue
		}
		if !isMin && *score > bound {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Store) Stats() (interfaces.Stats, error) {
	var all []jobrecord.JobRecord
	if err := s.db.Find(&all, badgerhold.Where("Fingerprint").Ne("")); err != nil {
		return interfaces.Stats{}, common.Transient("Store.Stats", err)
	}

	stats := interfaces.Stats{
		ByStatus: make(map[jobrecord.Status]int64),
		BySite:   make(map[string]int64),
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, r := range all {
		stats.ByStatus[r.Status]++
		stats.BySite[r.SourceSite]++
		if r.LastSeenAt.After(cutoff) {
			stats.RecentCount++
		}
	}
	return stats, nil
}
