package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/huntline/huntline/internal/common"
)

// RunContext carries cancellation, a deadline, counters, and the Store
// handle through a single scrape or process invocation. It replaces the
// process-wide globals the teacher uses for logging: every component
// receives one of these (or a narrower view of it) at construction instead
// of reaching for a package-level singleton.
type RunContext struct {
	RunID    string
	Context  context.Context
	Cancel   context.CancelFunc
	Deadline time.Time
	Counters *common.Counters
	Store    Store
	Logger   common.Logger
}

// NewRunContext builds a RunContext scoped to one invocation, with an
// optional overall deadline (zero time.Time means no deadline).
func NewRunContext(parent context.Context, store Store, logger common.Logger, deadline time.Time) *RunContext {
	ctx := parent
	var cancel context.CancelFunc
	if !deadline.IsZero() {
		ctx, cancel = context.WithDeadline(parent, deadline)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	runID := uuid.NewString()
	return &RunContext{
		RunID:    runID,
		Context:  ctx,
		Cancel:   cancel,
		Deadline: deadline,
		Counters: common.NewCounters(),
		Store:    store,
		Logger:   logger.WithContextWriter(runID),
	}
}

// Cancelled reports whether the run's context has been cancelled or its
// deadline has elapsed.
func (rc *RunContext) Cancelled() bool {
	select {
	case <-rc.Context.Done():
		return true
	default:
		return false
	}
}
