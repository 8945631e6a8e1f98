package badgerstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// runLogRecord is the badgerhold-stored shape of a RunLogEntry; it needs its
// own key (uuid) since RunLogEntry itself has no natural primary key.
type runLogRecord struct {
	Key       string `badgerhold:"key"`
	RunID     string `badgerhold:"index"`
	Kind      string
	StartedAt time.Time
	EndedAt   time.Time
	Counters  map[string]int64
}

// Append writes one append-only run-log entry, grounded on the teacher's
// job_log_storage.go pattern of a dedicated badgerhold collection distinct
// from the primary record collection.
func (s *Store) Append(entry interfaces.RunLogEntry) error {
	rec := runLogRecord{
		Key:       uuid.NewString(),
		RunID:     entry.RunID,
		Kind:      entry.Kind,
		StartedAt: entry.StartedAt,
		EndedAt:   entry.EndedAt,
		Counters:  entry.Counters,
	}
	if err := s.db.Insert(rec.Key, rec); err != nil {
		return common.Transient("Store.Append", err)
	}
	return nil
}

func (s *Store) Recent(limit int) ([]interfaces.RunLogEntry, error) {
	var recs []runLogRecord
	query := badgerhold.Where("Key").Ne("").SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := s.db.Find(&recs, query); err != nil {
		return nil, common.Transient("Store.Recent", err)
	}
	out := make([]interfaces.RunLogEntry, len(recs))
	for i, r := range recs {
		out[i] = interfaces.RunLogEntry{
			RunID: r.RunID, Kind: r.Kind,
			StartedAt: r.StartedAt, EndedAt: r.EndedAt,
			Counters: r.Counters,
		}
	}
	return out, nil
}
