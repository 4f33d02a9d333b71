// Package memory provides in-memory implementations of storage
// interfaces.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/multistate/domain/history"
)

// HistoryStore is an in-memory implementation of history.Store.
// Records are held in append order.
type HistoryStore struct {
	mu      sync.RWMutex
	records []history.Record
	byID    map[string]int
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		byID: make(map[string]int),
	}
}

// Append persists a new record.
func (s *HistoryStore) Append(ctx context.Context, rec history.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return history.ErrInvalidRecordID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(ctx context.Context, id string) (history.Record, error) {
	if err := ctx.Err(); err != nil {
		return history.Record{}, err
	}
	if id == "" {
		return history.Record{}, history.ErrInvalidRecordID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return history.Record{}, history.ErrRecordNotFound
	}
	return s.records[idx], nil
}

// List returns records matching the filter.
func (s *HistoryStore) List(ctx context.Context, filter history.Filter) ([]history.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]history.Record, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Matches(rec) {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	if filter.Descending {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].StartedAt.After(matched[j].StartedAt)
		})
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []history.Record{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count returns the number of records matching the filter.
func (s *HistoryStore) Count(ctx context.Context, filter history.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.records {
		if filter.Matches(rec) {
			n++
		}
	}
	return n, nil
}

// Prune discards all but the most recent keep records.
func (s *HistoryStore) Prune(ctx context.Context, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) <= keep {
		return nil
	}

	drop := len(s.records) - keep
	s.records = append([]history.Record(nil), s.records[drop:]...)
	s.byID = make(map[string]int, len(s.records))
	for i, rec := range s.records {
		s.byID[rec.ID] = i
	}
	return nil
}

var _ history.Store = (*HistoryStore)(nil)
