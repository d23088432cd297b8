// Package history persists invocation history in SQLite. The store feeds
// the command palette's most-recently-used ordering and the recent-commands
// action; the action bridge itself stays persistence-free and only hands
// records over via the execution observer.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id TEXT PRIMARY KEY,
	action_id TEXT NOT NULL,
	source TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT,
	duration_ms INTEGER NOT NULL,
	started_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invocations_action
	ON invocations(action_id, started_at);
`

// Invocation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	// OutcomeSkipped marks invocations whose instance reported itself
	// disabled and never ran.
	OutcomeSkipped = "skipped"
)

// Record is one row of invocation history.
type Record struct {
	ID        string
	ActionID  string
	Source    string
	Outcome   string
	Error     *string
	Duration  time.Duration
	StartedAt time.Time
}

// Store is the SQLite-backed invocation history.
type Store struct {
	db *sql.DB
}

var _ action.ExecutionObserver = (*Store)(nil)

// Open opens (creating if needed) the history database at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
		dsn = "file:" + path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	log.Debug(log.CatDB, "history store opened", "path", path)
	return &Store{db: db}, nil
}

// Record inserts one invocation row.
func (s *Store) Record(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO invocations (id, action_id, source, outcome, error, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ActionID, rec.Source, rec.Outcome, rec.Error,
		rec.Duration.Milliseconds(), rec.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording invocation: %w", err)
	}
	return nil
}

// ExecutionFinished adapts the bridge's execution records into history
// rows. Persistence failures are logged and dropped; history must never
// break dispatch.
func (s *Store) ExecutionFinished(rec action.ExecutionRecord) {
	row := Record{
		ID:        rec.InvocationID,
		ActionID:  rec.ActionID,
		Source:    string(rec.Source),
		Outcome:   OutcomeSuccess,
		Duration:  rec.Duration,
		StartedAt: rec.StartedAt,
	}
	if !rec.Ran {
		row.Outcome = OutcomeSkipped
	}
	if rec.Err != nil {
		row.Outcome = OutcomeFailure
		msg := rec.Err.Error()
		row.Error = &msg
	}

	if err := s.Record(row); err != nil {
		log.ErrorErr(log.CatDB, "failed to record invocation", err,
			"action", rec.ActionID, "invocation", rec.InvocationID)
	}
}

// RecentActionIDs returns distinct action ids that actually ran, most
// recent first, limited to n.
func (s *Store) RecentActionIDs(n int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT action_id FROM invocations
		 WHERE outcome != ?
		 GROUP BY action_id
		 ORDER BY MAX(started_at) DESC
		 LIMIT ?`,
		OutcomeSkipped, n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent actions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning recent action: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecentRecords returns the newest n invocation rows, most recent first.
func (s *Store) RecentRecords(n int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, action_id, source, outcome, error, duration_ms, started_at
		 FROM invocations
		 ORDER BY started_at DESC, id
		 LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying invocation history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []Record
	for rows.Next() {
		var rec Record
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.ActionID, &rec.Source, &rec.Outcome,
			&rec.Error, &durationMS, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning invocation: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Clear deletes all invocation rows.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM invocations`); err != nil {
		return fmt.Errorf("clearing invocation history: %w", err)
	}
	log.Info(log.CatDB, "invocation history cleared")
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
