package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// RunSummary is a stored run without its issues.
type RunSummary struct {
	ID         string        `json:"id"`
	Site       string        `json:"site"`
	Source     string        `json:"source"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	IssueCount int           `json:"issue_count"`
}

// HistoryStore keeps validation runs in SQLite.
type HistoryStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageError(err, "open sqlite database")
	}
	db.SetMaxOpenConns(1)

	store := &HistoryStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, storageError(err, "initialize schema")
	}
	return store, nil
}

func (s *HistoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		source TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		issue_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS issues (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		path TEXT NOT NULL,
		location TEXT NOT NULL,
		prefix TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Report stores run and its issues in one transaction.
func (s *HistoryStore) Report(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, site, source, started_at, duration_ns, issue_count) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.Site, run.Source, run.StartedAt.UnixNano(), int64(run.Duration), len(run.Issues),
	)
	if err != nil {
		return storageError(err, "insert run")
	}
	for i, issue := range run.Issues {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO issues (run_id, seq, kind, path, location, prefix, message) VALUES (?, ?, ?, ?, ?, ?, ?)",
			run.ID, i, string(issue.Kind), issue.Path, issue.Location, issue.Prefix, issue.Message,
		)
		if err != nil {
			return storageError(err, "insert issue")
		}
	}
	if err := tx.Commit(); err != nil {
		return storageError(err, "commit run")
	}
	return nil
}

// Runs lists the most recent runs, newest first.
func (s *HistoryStore) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, site, source, started_at, duration_ns, issue_count FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, storageError(err, "query runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "iterate rows")
	}
	return out, nil
}

// Run loads a stored run with its issues in their original order.
func (s *HistoryStore) Run(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, site, source, started_at, duration_ns, issue_count FROM runs WHERE id = ?", id)
	return s.load(ctx, row)
}

// LatestRun loads the most recent run.
func (s *HistoryStore) LatestRun(ctx context.Context) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, site, source, started_at, duration_ns, issue_count FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	return s.load(ctx, row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (RunSummary, error) {
	var summary RunSummary
	var startedAt, duration int64
	if err := row.Scan(&summary.ID, &summary.Site, &summary.Source, &startedAt, &duration, &summary.IssueCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return summary, derrors.NotFoundError("no validation run recorded").Build()
		}
		return summary, storageError(err, "scan run")
	}
	summary.StartedAt = time.Unix(0, startedAt).UTC()
	summary.Duration = time.Duration(duration)
	return summary, nil
}

func (s *HistoryStore) load(ctx context.Context, row *sql.Row) (*Run, error) {
	summary, err := scanSummary(row)
	if err != nil {
		return nil, err
	}
	run := &Run{
		ID:        summary.ID,
		Site:      summary.Site,
		Source:    summary.Source,
		StartedAt: summary.StartedAt,
		Duration:  summary.Duration,
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, path, location, prefix, message FROM issues WHERE run_id = ? ORDER BY seq", run.ID)
	if err != nil {
		return nil, storageError(err, "query issues")
	}
	defer rows.Close()
	for rows.Next() {
		var issue site.ValidationIssue
		var kind string
		if err := rows.Scan(&kind, &issue.Path, &issue.Location, &issue.Prefix, &issue.Message); err != nil {
			return nil, storageError(err, "scan issue")
		}
		issue.Kind = site.IssueKind(kind)
		run.Issues = append(run.Issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "iterate rows")
	}
	return run, nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func storageError(err error, op string) error {
	return derrors.WrapError(err, derrors.CategoryStorage, fmt.Sprintf("history: %s", op)).Build()
}
