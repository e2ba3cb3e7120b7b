// Package storage holds the SQL-backed record stores.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ecocharge/internal/core"
	"ecocharge/internal/records"

	_ "modernc.org/sqlite"
)

var _ records.RecordStore = (*SQLiteStore)(nil)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// migrates it to the latest schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]core.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, date, duration_minutes, price_per_kwh, total_kwh, total_cost
		FROM sessions
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %w", records.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []core.Session
	for rows.Next() {
		var r core.Session
		if err := rows.Scan(&r.ID, &r.Provider, &r.Date, &r.DurationMinutes, &r.PricePerKWh, &r.TotalKWh, &r.TotalCost); err != nil {
			return nil, fmt.Errorf("%w: scan session: %w", records.ErrStoreUnavailable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate sessions: %w", records.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, r core.Session) error {
	if err := insertSQLite(ctx, s.db, r); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Session saved to SQLite", "id", r.ID, "provider", r.Provider, "date", r.Date)
	return nil
}

// InsertMany writes the batch in one transaction.
func (s *SQLiteStore) InsertMany(ctx context.Context, batch []core.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", records.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	for _, r := range batch {
		if err := insertSQLite(ctx, tx, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", records.ErrStoreUnavailable, err)
	}
	slog.DebugContext(ctx, "Session batch saved to SQLite", "count", len(batch))
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", records.ErrStoreUnavailable, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", records.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSQLite(ctx context.Context, db execer, r core.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, provider, date, duration_minutes, price_per_kwh, total_kwh, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Provider, r.Date, r.DurationMinutes, r.PricePerKWh, r.TotalKWh, r.TotalCost)
	if isSQLiteConstraint(err) {
		return fmt.Errorf("%w: %s", records.ErrDuplicateID, r.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: insert %s: %w", records.ErrStoreUnavailable, r.ID, err)
	}
	return nil
}

// isSQLiteConstraint matches the primary key violation reported by SQLite
// ("UNIQUE constraint failed: sessions.id").
func isSQLiteConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
