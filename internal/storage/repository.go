// Package storage persists committed day registrations locally so a save
// survives platform outages; the sync worker drains pending rows later.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"horario/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states of a stored registration row.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncFailed  = "failed"
)

// SavedEntry is one persisted registration row.
type SavedEntry struct {
	ID          int64
	WorkerID    string
	DateKey     string
	Company     string
	StartTime   string
	EndTime     string
	Hours       float64
	Description string
	SyncStatus  string
	Version     int64
}

// PendingDay identifies a (worker, day) pair awaiting sync.
type PendingDay struct {
	WorkerID string
	DateKey  string
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceDayEntries atomically replaces a worker's stored entries for one day
// with the given drafts, marking the day pending for sync. The whole day is
// rewritten so a re-save after editing never leaves orphan rows.
func (r *SQLiteRepository) ReplaceDayEntries(ctx context.Context, workerID, dateKey string, entries []core.RegistrationEntry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM registrations WHERE worker_id = ? AND date_key = ?`,
		workerID, dateKey).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read current version: %w", err)
	}
	version++

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM registrations WHERE worker_id = ? AND date_key = ?`,
		workerID, dateKey); err != nil {
		return 0, fmt.Errorf("delete previous day rows: %w", err)
	}

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO registrations
			   (worker_id, date_key, company, start_time, end_time, hours, description, sync_status, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			workerID, dateKey, e.Company, e.StartTime, e.EndTime,
			core.EntryHours(e), e.Description, SyncPending, version); err != nil {
			return 0, fmt.Errorf("insert registration row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit day replacement: %w", err)
	}

	slog.InfoContext(ctx, "Day registration saved",
		"worker_id", workerID,
		"date_key", dateKey,
		"entries", len(entries),
		"version", version)
	return version, nil
}

// GetDayEntries returns the stored rows for one (worker, day) pair.
func (r *SQLiteRepository) GetDayEntries(ctx context.Context, workerID, dateKey string) ([]SavedEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, worker_id, date_key, company, start_time, end_time, hours, description, sync_status, version
		   FROM registrations
		  WHERE worker_id = ? AND date_key = ?
		  ORDER BY id`,
		workerID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("query day entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListPendingDays returns distinct (worker, day) pairs with rows awaiting
// sync, oldest first, up to limit. Failed days are included so the catch-up
// pass retries them.
func (r *SQLiteRepository) ListPendingDays(ctx context.Context, limit int) ([]PendingDay, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT worker_id, date_key
		   FROM registrations
		  WHERE sync_status IN (?, ?)
		  GROUP BY worker_id, date_key
		  ORDER BY MIN(id)
		  LIMIT ?`,
		SyncPending, SyncFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending days: %w", err)
	}
	defer rows.Close()

	var out []PendingDay
	for rows.Next() {
		var p PendingDay
		if err := rows.Scan(&p.WorkerID, &p.DateKey); err != nil {
			return nil, fmt.Errorf("scan pending day: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkDaySynced flips every row of a (worker, day) pair to the given status.
func (r *SQLiteRepository) MarkDaySynced(ctx context.Context, workerID, dateKey, status string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE registrations
		    SET sync_status = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE worker_id = ? AND date_key = ?`,
		status, workerID, dateKey); err != nil {
		return fmt.Errorf("update sync status: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]SavedEntry, error) {
	var out []SavedEntry
	for rows.Next() {
		var e SavedEntry
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.DateKey, &e.Company, &e.StartTime,
			&e.EndTime, &e.Hours, &e.Description, &e.SyncStatus, &e.Version); err != nil {
			return nil, fmt.Errorf("scan registration row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RegistrationEntries converts stored rows back to draft shape, used when
// re-opening a previously saved day.
func RegistrationEntries(saved []SavedEntry) []core.RegistrationEntry {
	out := make([]core.RegistrationEntry, 0, len(saved))
	for _, s := range saved {
		out = append(out, core.RegistrationEntry{
			ID:          fmt.Sprintf("%d", s.ID),
			Company:     s.Company,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Hours:       formatStoredHours(s.Hours),
			Description: s.Description,
		})
	}
	return out
}

func formatStoredHours(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	if s == "" {
		s = "0"
	}
	return s
}
