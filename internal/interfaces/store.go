// Package interfaces collects the contract types shared across components,
// mirroring the teacher's internal/interfaces hub: concrete implementations
// live under internal/storage and internal/services/llm, but the contracts
// themselves are declared here so components can depend on behavior, not
// implementation.
package interfaces

import (
	"time"

	"github.com/huntline/huntline/internal/jobrecord"
)

type UpsertResult int

const (
	Inserted UpsertResult = iota
	Updated
	Unchanged
)

func (r UpsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// QueryFilter narrows Store.Query results. Zero values mean "no filter on
// this dimension".
type QueryFilter struct {
	Statuses      []jobrecord.Status
	Site          string
	SearchKeyword string
	MinScore      *float64
	MaxScore      *float64
	Since         time.Time
	Limit         int
	Offset        int
}

// Stats summarizes a profile's Store for the `stats` command.
type Stats struct {
	ByStatus    map[jobrecord.Status]int64
	BySite      map[string]int64
	RecentCount int64
}

// ScoreUpdate carries the fields Processor is allowed to write back on a
// status advance, keeping the "scores update atomic with status advance"
// contract explicit at the call site.
type ScoreUpdate struct {
	Stage1Score   *float64
	Stage1Reasons []string
	Stage2Score   *float64
	FinalScore    *float64
}

// Store is the durable per-profile persistence contract (component B).
type Store interface {
	// Upsert merges record into the store keyed by its Fingerprint, per the
	// field-wise merge policy: new non-empty values win over old empty
	// ones, scoring fields are untouched by Scraper-origin upserts.
	Upsert(record *jobrecord.JobRecord) (UpsertResult, error)

	// AdvanceStatus compare-and-swaps status from `from` to `to`, optionally
	// writing score fields atomically with the transition.
	AdvanceStatus(fingerprint string, from, to jobrecord.Status, scores *ScoreUpdate) error

	Get(fingerprint string) (*jobrecord.JobRecord, error)
	Query(filter QueryFilter) ([]*jobrecord.JobRecord, error)
	Stats() (Stats, error)
	Close() error
}

// RunLogEntry is one row of the append-only run log persisted per profile.
type RunLogEntry struct {
	RunID     string
	Kind      string // "scrape" | "process"
	StartedAt time.Time
	EndedAt   time.Time
	Counters  map[string]int64
}

// RunLog is the append-only log of Scraper/Processor invocations.
type RunLog interface {
	Append(entry RunLogEntry) error
	Recent(limit int) ([]RunLogEntry, error)
}
