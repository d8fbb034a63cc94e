package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/git-mastery/gitmastery/internal/progress"
)

// Store implements progress.Store backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and runs
// migrations. Use ":memory:" for an in-memory database (useful for
// testing).
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordDownload(ctx context.Context, exercise string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (exercise, downloaded_at) VALUES (?, ?)
		ON CONFLICT(exercise) DO UPDATE SET downloaded_at = excluded.downloaded_at`,
		exercise, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording download: %w", err)
	}
	return nil
}

func (s *Store) RecordAttempt(ctx context.Context, a *progress.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, exercise, status, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Exercise, string(a.Status), a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

func (s *Store) ListAttempts(ctx context.Context, exercise string) ([]progress.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exercise, status, created_at
		FROM attempts WHERE exercise = ?
		ORDER BY created_at DESC`, exercise)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	defer rows.Close()

	var attempts []progress.Attempt
	for rows.Next() {
		var a progress.Attempt
		var status, created string
		if err := rows.Scan(&a.ID, &a.Exercise, &status, &created); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		a.Status = progress.AttemptStatus(status)
		if a.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parsing attempt timestamp: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (s *Store) Summaries(ctx context.Context) ([]progress.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.exercise, d.downloaded_at,
		       COUNT(a.id),
		       COALESCE(MAX(CASE WHEN a.status = 'passed' THEN 1 ELSE 0 END), 0),
		       MAX(a.created_at)
		FROM downloads d
		LEFT JOIN attempts a ON a.exercise = d.exercise
		GROUP BY d.exercise
		ORDER BY d.downloaded_at`)
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}
	defer rows.Close()

	var summaries []progress.Summary
	for rows.Next() {
		var s progress.Summary
		var downloaded string
		var completed int
		var last sql.NullString
		if err := rows.Scan(&s.Exercise, &downloaded, &s.Attempts, &completed, &last); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		if s.DownloadedAt, err = time.Parse(time.RFC3339, downloaded); err != nil {
			return nil, fmt.Errorf("parsing download timestamp: %w", err)
		}
		s.Completed = completed == 1
		if last.Valid {
			t, err := time.Parse(time.RFC3339, last.String)
			if err != nil {
				return nil, fmt.Errorf("parsing attempt timestamp: %w", err)
			}
			s.LastAttempt = &t
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
