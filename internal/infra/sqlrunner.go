package infra

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract repositories need for executing SQL.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// SQLRunner executes statements on a pool and logs failures.
type SQLRunner struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msg("sql exec failed")
		return tag, err
	}
	r.Logger.Debug().Int64("rows", tag.RowsAffected()).Msg("sql exec ok")
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return loggingRow{row: r.Pool.QueryRow(ctx, query, args...), logger: r.Logger}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msg("sql query failed")
		return nil, err
	}
	return rows, nil
}

// Close releases the pool.
func (r *SQLRunner) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
}

type loggingRow struct {
	row    pgx.Row
	logger zerolog.Logger
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	if err != nil && !IsNoRows(err) {
		l.logger.Error().Err(err).Msg("sql scan failed")
	}
	return err
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ SQLExecutor = (*SQLRunner)(nil)
