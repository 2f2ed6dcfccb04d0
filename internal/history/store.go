package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome is how a download job ended.
type Outcome string

const (
	// OutcomeSuccess means the tool succeeded and the file was found.
	OutcomeSuccess Outcome = "success"

	// OutcomeNoFile means the tool succeeded but no file path could be
	// derived from its output.
	OutcomeNoFile Outcome = "no_file"

	// OutcomeError means the tool failed or could not be started.
	OutcomeError Outcome = "error"
)

// ErrDuplicate is returned when a job is recorded twice.
var ErrDuplicate = errors.New("job already recorded")

// Record is one finished download job.
type Record struct {
	ID         int64
	JobID      string
	VideoID    string
	Title      string
	URL        string
	Dir        string
	Path       string
	Outcome    Outcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store keeps download history in a sqlite database.
//
// Example:
//
//	store, err := history.Open(ctx, "/home/me/.config/tubeaudio/history.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	recent, err := store.Recent(ctx, 20)
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies pending
// migrations. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// Jobs finish on their own goroutines; a single connection serializes
	// writers and keeps an in-memory database shared.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores r and sets its ID.
func (s *Store) Record(ctx context.Context, r *Record) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (job_id, video_id, title, url, dir, path, outcome, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.JobID, r.VideoID, r.Title, r.URL, r.Dir, r.Path, string(r.Outcome), r.StartedAt.UTC(), r.FinishedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("record %s: %w", r.JobID, ErrDuplicate)
		}
		return fmt.Errorf("record %s: %w", r.JobID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// Recent returns up to limit records, most recently finished first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, video_id, title, url, dir, path, outcome, started_at, finished_at
		FROM downloads
		ORDER BY finished_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var outcome string
		if err := rows.Scan(&r.ID, &r.JobID, &r.VideoID, &r.Title, &r.URL, &r.Dir, &r.Path, &outcome, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Outcome = Outcome(outcome)
		records = append(records, r)
	}
	return records, rows.Err()
}

// ByVideo returns every record for videoID, most recent first.
func (s *Store) ByVideo(ctx context.Context, videoID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, video_id, title, url, dir, path, outcome, started_at, finished_at
		FROM downloads
		WHERE video_id = ?
		ORDER BY finished_at DESC, id DESC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", videoID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var outcome string
		if err := rows.Scan(&r.ID, &r.JobID, &r.VideoID, &r.Title, &r.URL, &r.Dir, &r.Path, &outcome, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Outcome = Outcome(outcome)
		records = append(records, r)
	}
	return records, rows.Err()
}
