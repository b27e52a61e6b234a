package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gleaner/internal/records"
)

// Run describes one completed (or canceled) pipeline run.
type Run struct {
	ID          int64
	UUID        string
	PlaylistID  string
	Status      RunStatus
	ItemCount   int
	ReviewCount int
	CreatedAt   time.Time
}

// RunStatus is the terminal state a run was persisted with.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusCanceled  RunStatus = "canceled"
)

// ErrNotFound indicates the requested run or record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store persists runs and their records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == 5 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the catalog database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// SaveRun persists a run and its records in item order inside one
// transaction. A UUID is assigned when the run does not carry one, and
// counts are derived from the records.
func (s *Store) SaveRun(ctx context.Context, run *Run, recs []records.Record) error {
	if run == nil {
		return errors.New("run required")
	}
	if run.UUID == "" {
		run.UUID = uuid.NewString()
	}
	if run.Status == "" {
		run.Status = RunStatusCompleted
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.ItemCount = len(recs)
	run.ReviewCount = 0
	for _, record := range recs {
		if record.NeedsReview {
			run.ReviewCount++
		}
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		result, err := tx.ExecContext(ctx,
			`INSERT INTO runs (uuid, playlist_id, status, item_count, review_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.UUID, run.PlaylistID, string(run.Status), run.ItemCount, run.ReviewCount,
			run.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		runID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("run id: %w", err)
		}
		run.ID = runID

		for position, record := range recs {
			if err := insertRecord(ctx, tx, runID, position, record); err != nil {
				return fmt.Errorf("insert record %d: %w", position, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit save: %w", err)
		}
		return nil
	})
}

func insertRecord(ctx context.Context, tx *sql.Tx, runID int64, position int, record records.Record) error {
	var estimated sql.NullInt64
	if record.EstimatedTime != nil {
		estimated = sql.NullInt64{Int64: int64(*record.EstimatedTime), Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO records (
			run_id, position, title, description, category, platforms, versions,
			source_url, materials, optional_materials, tags, farmable_items,
			estimated_time, required_biome, designer, drop_rate_note, notes,
			confidence, needs_review, errors
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, position, record.Title, record.Description, record.Category,
		records.JoinList(record.Platforms), records.JoinList(record.Versions),
		record.SourceURL, record.Materials, record.OptionalMaterials,
		records.JoinList(record.Tags), records.JoinList(record.FarmableItems),
		estimated, record.RequiredBiome, record.Designer, record.DropRateNote,
		record.Notes, record.Confidence, boolToInt(record.NeedsReview),
		strings.Join(record.Errors, "\n"),
	)
	return err
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uuid, playlist_id, status, item_count, review_count, created_at
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, uuid, playlist_id, status, item_count, review_count, created_at
		 FROM runs ORDER BY id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindRun returns the run with the given UUID.
func (s *Store) FindRun(ctx context.Context, runUUID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, uuid, playlist_id, status, item_count, review_count, created_at
		 FROM runs WHERE uuid = ?`, strings.TrimSpace(runUUID))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (Run, error) {
	var run Run
	var status, createdAt string
	if err := scanner.Scan(&run.ID, &run.UUID, &run.PlaylistID, &status,
		&run.ItemCount, &run.ReviewCount, &createdAt); err != nil {
		return Run{}, err
	}
	run.Status = RunStatus(status)
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = parsed
	}
	return run, nil
}

// RecordsForRun returns the run's records in item order.
func (s *Store) RecordsForRun(ctx context.Context, runID int64) ([]records.Record, error) {
	rows, err := s.db.QueryContext(ctx, recordColumns+` FROM records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []records.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// GetRecord returns one record of a run by its zero-based position.
func (s *Store) GetRecord(ctx context.Context, runID int64, position int) (records.Record, error) {
	row := s.db.QueryRowContext(ctx, recordColumns+` FROM records WHERE run_id = ? AND position = ?`, runID, position)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return records.Record{}, fmt.Errorf("%w: record %d of run %d", ErrNotFound, position, runID)
	}
	return record, err
}

const recordColumns = `SELECT title, description, category, platforms, versions,
	source_url, materials, optional_materials, tags, farmable_items,
	estimated_time, required_biome, designer, drop_rate_note, notes,
	confidence, needs_review, errors`

func scanRecord(scanner rowScanner) (records.Record, error) {
	var record records.Record
	var platforms, versions, tags, farmable, errorsText string
	var estimated sql.NullInt64
	var needsReview int
	if err := scanner.Scan(
		&record.Title, &record.Description, &record.Category, &platforms, &versions,
		&record.SourceURL, &record.Materials, &record.OptionalMaterials, &tags, &farmable,
		&estimated, &record.RequiredBiome, &record.Designer, &record.DropRateNote, &record.Notes,
		&record.Confidence, &needsReview, &errorsText,
	); err != nil {
		return records.Record{}, err
	}
	record.Platforms = records.SplitList(platforms)
	record.Versions = records.SplitList(versions)
	record.Tags = records.SplitList(tags)
	record.FarmableItems = records.SplitList(farmable)
	if estimated.Valid {
		minutes := int(estimated.Int64)
		record.EstimatedTime = &minutes
	}
	record.NeedsReview = needsReview != 0
	if errorsText != "" {
		record.Errors = strings.Split(errorsText, "\n")
	}
	return record, nil
}

// UpdateRecordField applies a field-level edit to one stored record.
// Only the named field changes; position and all other fields stay as
// they were.
func (s *Store) UpdateRecordField(ctx context.Context, runID int64, position int, field, value string) error {
	record, err := s.GetRecord(ctx, runID, position)
	if err != nil {
		return err
	}
	if err := records.Apply(&record, field, value); err != nil {
		return err
	}

	var estimated sql.NullInt64
	if record.EstimatedTime != nil {
		estimated = sql.NullInt64{Int64: int64(*record.EstimatedTime), Valid: true}
	}
	return retryOnBusy(ctx, func() error {
		result, err := s.db.ExecContext(ctx,
			`UPDATE records SET
				title = ?, description = ?, category = ?, platforms = ?, versions = ?,
				source_url = ?, materials = ?, optional_materials = ?, tags = ?,
				farmable_items = ?, estimated_time = ?, required_biome = ?, designer = ?,
				drop_rate_note = ?, notes = ?, needs_review = ?
			 WHERE run_id = ? AND position = ?`,
			record.Title, record.Description, record.Category,
			records.JoinList(record.Platforms), records.JoinList(record.Versions),
			record.SourceURL, record.Materials, record.OptionalMaterials,
			records.JoinList(record.Tags), records.JoinList(record.FarmableItems),
			estimated, record.RequiredBiome, record.Designer, record.DropRateNote,
			record.Notes, boolToInt(record.NeedsReview),
			runID, position,
		)
		if err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update record: rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: record %d of run %d", ErrNotFound, position, runID)
		}
		return nil
	})
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
