package requestlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Request describes one backend call about to be made.
type Request struct {
	ID           string
	Backend      string
	Model        string
	SourceLang   string
	TargetLang   string
	ChunkIndex   int
	ChunkTotal   int
	SegmentCount int
	ContextCount int
	Attempt      int
	PromptChars  int
}

// Response describes the outcome of a recorded request.
type Response struct {
	RequestID  string
	Status     string
	Detail     string
	ReplyChars int
	Duration   time.Duration
}

// Record is a journal row joined with its response, if one arrived.
type Record struct {
	Request
	CreatedAt  time.Time
	Status     string
	Detail     string
	ReplyChars int
	Duration   time.Duration
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the journal database for writing. The
// flock sidecar next to the database keeps a second writer out; Close
// releases it.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !held {
		return nil, errors.New("another shuttle process is writing this journal")
	}

	store, err := open(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	store.lock = lock

	if err := store.applyMigrations(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// OpenReadOnly connects to an existing journal without taking the writer
// lock, for history listings while a translation runs.
func OpenReadOnly(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return &Store{db: db, path: path}, nil
}

// Path reports the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database and releases the writer lock if held.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// RecordRequest inserts a request row. A missing ID is filled with a fresh
// UUID.
func (s *Store) RecordRequest(ctx context.Context, req Request) error {
	if s == nil || s.db == nil {
		return errors.New("journal not open")
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO requests (
            id, created_at, backend, model, source_lang, target_lang,
            chunk_index, chunk_total, segment_count, context_count, attempt, prompt_chars
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		time.Now().UTC().Format(time.RFC3339Nano),
		req.Backend,
		req.Model,
		req.SourceLang,
		req.TargetLang,
		req.ChunkIndex,
		req.ChunkTotal,
		req.SegmentCount,
		req.ContextCount,
		req.Attempt,
		req.PromptChars,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// RecordResponse inserts the outcome row for a previously recorded request.
func (s *Store) RecordResponse(ctx context.Context, resp Response) error {
	if s == nil || s.db == nil {
		return errors.New("journal not open")
	}
	if resp.RequestID == "" {
		return errors.New("response requires a request id")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO responses (request_id, completed_at, status, detail, reply_chars, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?)`,
		resp.RequestID,
		time.Now().UTC().Format(time.RFC3339Nano),
		resp.Status,
		nullableString(resp.Detail),
		resp.ReplyChars,
		resp.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// Recent returns the newest journal rows, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, limit, false)
}

// RecentFailures returns the newest rows whose response status is not ok,
// most recent first. Requests still awaiting a response are excluded.
func (s *Store) RecentFailures(ctx context.Context, limit int) ([]Record, error) {
	return s.query(ctx, limit, true)
}

func (s *Store) query(ctx context.Context, limit int, failedOnly bool) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("journal not open")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT
            r.id, r.created_at, r.backend, r.model, r.source_lang, r.target_lang,
            r.chunk_index, r.chunk_total, r.segment_count, r.context_count, r.attempt, r.prompt_chars,
            resp.status, resp.detail, resp.reply_chars, resp.duration_ms
        FROM requests r
        LEFT JOIN responses resp ON resp.request_id = r.id`
	if failedOnly {
		query += `
        WHERE resp.status IS NOT NULL AND resp.status != 'ok'`
	}
	query += `
        ORDER BY r.created_at DESC
        LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			createdAt  string
			status     sql.NullString
			detail     sql.NullString
			replyChars sql.NullInt64
			durationMS sql.NullInt64
		)
		if err := rows.Scan(
			&rec.ID, &createdAt, &rec.Backend, &rec.Model, &rec.SourceLang, &rec.TargetLang,
			&rec.ChunkIndex, &rec.ChunkTotal, &rec.SegmentCount, &rec.ContextCount, &rec.Attempt, &rec.PromptChars,
			&status, &detail, &replyChars, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			rec.CreatedAt = ts
		}
		rec.Status = status.String
		rec.Detail = detail.String
		rec.ReplyChars = int(replyChars.Int64)
		rec.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
