package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ecocharge/internal/core"
	"ecocharge/internal/records"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns     = 25
	defaultMinConns     = 2
	defaultConnLifetime = time.Hour
	defaultConnIdleTime = 30 * time.Minute
	defaultPingTimeout  = 5 * time.Second

	// SQLSTATE unique_violation.
	uniqueViolation = "23505"
)

var _ records.RecordStore = (*PostgresStore)(nil)

type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, validates the connection and applies the
// embedded migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres: empty DSN")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = defaultMaxConns
	cfg.MinConns = defaultMinConns
	cfg.MaxConnLifetime = defaultConnLifetime
	cfg.MaxConnIdleTime = defaultConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunPostgresMigrations(dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]core.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, provider, date, duration_minutes, price_per_kwh, total_kwh, total_cost
		FROM sessions
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %w", records.ErrStoreUnavailable, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Session, error) {
		var r core.Session
		err := row.Scan(&r.ID, &r.Provider, &r.Date, &r.DurationMinutes, &r.PricePerKWh, &r.TotalKWh, &r.TotalCost)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan sessions: %w", records.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, r core.Session) error {
	if err := insertPostgres(ctx, s.pool, r); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Session saved to Postgres", "id", r.ID, "provider", r.Provider, "date", r.Date)
	return nil
}

// InsertMany writes the batch in one transaction.
func (s *PostgresStore) InsertMany(ctx context.Context, batch []core.Session) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", records.ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	for _, r := range batch {
		if err := insertPostgres(ctx, tx, r); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", records.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", records.ErrStoreUnavailable, id, err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrNotFound
	}
	return nil
}

type pgExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertPostgres(ctx context.Context, db pgExecer, r core.Session) error {
	_, err := db.Exec(ctx, `
		INSERT INTO sessions (id, provider, date, duration_minutes, price_per_kwh, total_kwh, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Provider, r.Date, r.DurationMinutes, r.PricePerKWh, r.TotalKWh, r.TotalCost)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", records.ErrDuplicateID, r.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: insert %s: %w", records.ErrStoreUnavailable, r.ID, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
