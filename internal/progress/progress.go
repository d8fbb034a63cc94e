// Package progress persists exercise downloads and verification attempts.
package progress

import (
	"context"
	"time"
)

// AttemptStatus is the outcome of one verification run.
type AttemptStatus string

const (
	StatusPassed AttemptStatus = "passed"
	StatusFailed AttemptStatus = "failed"
)

// Attempt is one recorded verification run. The ID field must be set by
// the caller.
type Attempt struct {
	ID        string        `json:"id"`
	Exercise  string        `json:"exercise"`
	Status    AttemptStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Summary aggregates a downloaded exercise's attempt history.
type Summary struct {
	Exercise     string     `json:"exercise"`
	DownloadedAt time.Time  `json:"downloaded_at"`
	Attempts     int        `json:"attempts"`
	Completed    bool       `json:"completed"`
	LastAttempt  *time.Time `json:"last_attempt,omitempty"`
}

// Store is the persistence interface for exercise progress.
type Store interface {
	// RecordDownload marks an exercise as downloaded, updating the
	// timestamp when it was downloaded before.
	RecordDownload(ctx context.Context, exercise string) error

	// RecordAttempt inserts a verification attempt.
	RecordAttempt(ctx context.Context, a *Attempt) error

	// ListAttempts returns attempts for one exercise, newest first.
	ListAttempts(ctx context.Context, exercise string) ([]Attempt, error)

	// Summaries returns one row per downloaded exercise, in download order.
	Summaries(ctx context.Context) ([]Summary, error)

	Close() error
}
