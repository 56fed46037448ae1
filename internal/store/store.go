// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuikeys/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for answer history, removed shortcuts and runs.
type Store struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, runID: uuid.NewString(), now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunID identifies the current process; answers saved through this Store are tagged with it.
func (s *Store) RunID() string {
	return s.runID
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS answers (
			shortcut_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			answered_at TEXT NOT NULL,
			run_id TEXT NOT NULL,
			PRIMARY KEY (shortcut_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS removed_shortcuts (
			shortcut_id TEXT PRIMARY KEY,
			removed_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			correct INTEGER NOT NULL,
			wrong INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_answers_run_id ON answers(run_id);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadAnsweredHistory returns every shortcut's results, oldest first.
func (s *Store) LoadAnsweredHistory(ctx context.Context) (model.AnsweredHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT shortcut_id, correct FROM answers ORDER BY shortcut_id, seq`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	history := model.AnsweredHistory{}
	for rows.Next() {
		var id string
		var correct bool
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		history[id] = append(history[id], correct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// SaveAnsweredHistory persists history. History is append-only, so only
// results beyond what is already stored for each shortcut are inserted.
func (s *Store) SaveAnsweredHistory(ctx context.Context, history model.AnsweredHistory) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stored, err := countAnswers(ctx, tx)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO answers (shortcut_id, seq, correct, answered_at, run_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	answeredAt := s.now().UTC().Format(time.RFC3339Nano)
	for id, results := range history {
		for seq := stored[id]; seq < len(results); seq++ {
			if _, err = stmt.ExecContext(ctx, id, seq, results[seq], answeredAt, s.runID); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func countAnswers(ctx context.Context, tx *sql.Tx) (map[string]int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT shortcut_id, COUNT(*) FROM answers GROUP BY shortcut_id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// ResetHistory deletes every stored answer.
func (s *Store) ResetHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM answers`)
	return err
}

// LoadRemovedIDs returns removed shortcut ids in ascending order.
func (s *Store) LoadRemovedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT shortcut_id FROM removed_shortcuts ORDER BY shortcut_id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveRemovedIDs replaces the removed set with ids. Ids already removed keep
// their original removal time.
func (s *Store) SaveRemovedIDs(ctx context.Context, ids []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if len(ids) == 0 {
		if _, err = tx.ExecContext(ctx, `DELETE FROM removed_shortcuts`); err != nil {
			return err
		}
		return tx.Commit()
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM removed_shortcuts WHERE shortcut_id NOT IN (%s)`, strings.Join(placeholders, ","))
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	removedAt := s.now().UTC().Format(time.RFC3339Nano)
	for _, id := range ids {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO removed_shortcuts (shortcut_id, removed_at) VALUES (?, ?) ON CONFLICT(shortcut_id) DO NOTHING`,
			id, removedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertRun stores a finished practice run.
func (s *Store) InsertRun(ctx context.Context, run model.Run) error {
	if run.ID == "" {
		run.ID = s.runID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, tool, started_at, ended_at, correct, wrong)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET tool = excluded.tool, ended_at = excluded.ended_at,
		 correct = excluded.correct, wrong = excluded.wrong`,
		run.ID,
		run.Tool,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.EndedAt.UTC().Format(time.RFC3339Nano),
		run.Correct,
		run.Wrong,
	)
	return err
}

// ListRuns returns runs ordered by end time, optionally filtered by tool.
func (s *Store) ListRuns(ctx context.Context, tool string) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, started_at, ended_at, correct, wrong
		 FROM runs
		 WHERE (? = '' OR tool = ?)
		 ORDER BY ended_at ASC`, tool, tool)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var startedAt, endedAt string
		if err := rows.Scan(&run.ID, &run.Tool, &startedAt, &endedAt, &run.Correct, &run.Wrong); err != nil {
			return nil, err
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if run.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
