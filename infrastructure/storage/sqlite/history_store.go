package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/multistate/domain/execution"
	"github.com/felixgeelhaar/multistate/domain/history"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// HistoryStore is a SQLite-backed implementation of history.Store.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a new SQLite history store with the given
// configuration.
func NewHistoryStore(cfg Config, opts ...Option) (*HistoryStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &HistoryStore{db: db}
	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewHistoryStoreFromDB creates a history store from an existing
// database connection.
func NewHistoryStoreFromDB(db *sql.DB) (*HistoryStore, error) {
	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate creates the history table if it doesn't exist.
func (s *HistoryStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS execution_history (
			id TEXT PRIMARY KEY,
			transition_id TEXT NOT NULL,
			final_phase TEXT NOT NULL,
			committed INTEGER NOT NULL,
			before_states TEXT NOT NULL,
			after_states TEXT NOT NULL,
			error TEXT,
			started_at INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_transition ON execution_history(transition_id);
		CREATE INDEX IF NOT EXISTS idx_history_started_at ON execution_history(started_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Append persists a new record.
func (s *HistoryStore) Append(ctx context.Context, rec history.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return history.ErrInvalidRecordID
	}

	before, err := json.Marshal(rec.Before)
	if err != nil {
		return err
	}
	after, err := json.Marshal(rec.After)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO execution_history
			(id, transition_id, final_phase, committed, before_states, after_states, error, started_at, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TransitionID, string(rec.Final), boolToInt(rec.Committed),
		string(before), string(after), rec.Error,
		rec.StartedAt.UnixNano(), int64(rec.Duration),
	)
	return err
}

// Get retrieves a record by ID.
func (s *HistoryStore) Get(ctx context.Context, id string) (history.Record, error) {
	if err := ctx.Err(); err != nil {
		return history.Record{}, err
	}
	if id == "" {
		return history.Record{}, history.ErrInvalidRecordID
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, transition_id, final_phase, committed, before_states, after_states, error, started_at, duration_ns
		FROM execution_history WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Record{}, history.ErrRecordNotFound
	}
	return rec, err
}

// List returns records matching the filter.
func (s *HistoryStore) List(ctx context.Context, filter history.Filter) ([]history.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of records matching the filter.
func (s *HistoryStore) Count(ctx context.Context, filter history.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	where, args := buildWhere(filter)
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM execution_history"+where, args...,
	).Scan(&n)
	return n, err
}

// Prune discards all but the most recent keep records.
func (s *HistoryStore) Prune(ctx context.Context, keep int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM execution_history WHERE id NOT IN (
			SELECT id FROM execution_history ORDER BY started_at DESC, id DESC LIMIT ?
		)`, keep)
	return err
}

// buildWhere assembles the WHERE clause for the filter's criteria.
func buildWhere(filter history.Filter) (string, []any) {
	var conds []string
	var args []any

	if filter.TransitionID != "" {
		conds = append(conds, "transition_id = ?")
		args = append(args, filter.TransitionID)
	}
	if filter.Committed != nil {
		conds = append(conds, "committed = ?")
		args = append(args, boolToInt(*filter.Committed))
	}
	if !filter.FromTime.IsZero() {
		conds = append(conds, "started_at >= ?")
		args = append(args, filter.FromTime.UnixNano())
	}
	if !filter.ToTime.IsZero() {
		conds = append(conds, "started_at <= ?")
		args = append(args, filter.ToTime.UnixNano())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildListQuery assembles the full SELECT for List.
func buildListQuery(filter history.Filter) (string, []any) {
	where, args := buildWhere(filter)

	order := " ORDER BY started_at ASC, id ASC"
	if filter.Descending {
		order = " ORDER BY started_at DESC, id DESC"
	}

	query := `
		SELECT id, transition_id, final_phase, committed, before_states, after_states, error, started_at, duration_ns
		FROM execution_history` + where + order

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	return query, args
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (history.Record, error) {
	var (
		rec        history.Record
		final      string
		committed  int
		before     string
		after      string
		startedAt  int64
		durationNs int64
	)
	err := sc.Scan(&rec.ID, &rec.TransitionID, &final, &committed,
		&before, &after, &rec.Error, &startedAt, &durationNs)
	if err != nil {
		return history.Record{}, err
	}

	rec.Final = execution.Phase(final)
	rec.Committed = committed != 0
	rec.StartedAt = time.Unix(0, startedAt)
	rec.Duration = time.Duration(durationNs)

	if err := json.Unmarshal([]byte(before), &rec.Before); err != nil {
		return history.Record{}, err
	}
	if err := json.Unmarshal([]byte(after), &rec.After); err != nil {
		return history.Record{}, err
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ history.Store = (*HistoryStore)(nil)
