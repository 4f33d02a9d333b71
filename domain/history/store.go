// Package history provides the domain interface for execution history
// persistence.
package history

import (
	"context"
	"time"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/state"
)

// Record captures one transition execution: which transition ran, the
// configuration before and after, and how the attempt ended.
type Record struct {
	// ID uniquely identifies this record.
	ID string `json:"id"`

	// TransitionID is the transition that was executed.
	TransitionID string `json:"transition_id"`

	// Final is the terminal phase the execution reached.
	Final execution.Phase `json:"final"`

	// Committed reports whether the execution reached CLEANUP.
	Committed bool `json:"committed"`

	// Before is the active configuration when execution started.
	Before []state.ID `json:"before"`

	// After is the active configuration when execution finished.
	After []state.ID `json:"after"`

	// Error holds the failure message for non-committed executions.
	Error string `json:"error,omitempty"`

	// StartedAt is when execution began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long execution took.
	Duration time.Duration `json:"duration"`
}

// Store defines the interface for history persistence.
// Implementations may be in-memory, SQLite, or any other backend.
type Store interface {
	// Append persists a new record.
	Append(ctx context.Context, rec Record) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records matching the filter, oldest first.
	List(ctx context.Context, filter Filter) ([]Record, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter Filter) (int64, error)

	// Prune discards all but the most recent keep records.
	Prune(ctx context.Context, keep int) error
}

// Filter specifies criteria for listing history records.
type Filter struct {
	// TransitionID filters by transition (empty means all).
	TransitionID string

	// Committed filters by outcome when non-nil.
	Committed *bool

	// FromTime filters records started after this time.
	FromTime time.Time

	// ToTime filters records started before this time.
	ToTime time.Time

	// Limit is the maximum number of records to return (0 = no limit).
	Limit int

	// Offset is the number of records to skip for pagination.
	Offset int

	// Descending returns newest records first.
	Descending bool
}

// Matches reports whether the record satisfies the filter's criteria,
// ignoring pagination fields.
func (f Filter) Matches(rec Record) bool {
	if f.TransitionID != "" && rec.TransitionID != f.TransitionID {
		return false
	}
	if f.Committed != nil && rec.Committed != *f.Committed {
		return false
	}
	if !f.FromTime.IsZero() && rec.StartedAt.Before(f.FromTime) {
		return false
	}
	if !f.ToTime.IsZero() && rec.StartedAt.After(f.ToTime) {
		return false
	}
	return true
}
