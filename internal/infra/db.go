package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DSN kinds understood by DetectDSNType.
const (
	DSNPostgres = "postgres"
	DSNSQLite   = "sqlite3"
)

// DetectDSNType reports whether dsn points at PostgreSQL or a SQLite file.
func DetectDSNType(dsn string) string {
	d := strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(d, "postgres://"),
		strings.HasPrefix(d, "postgresql://"),
		strings.Contains(d, "host=") && strings.Contains(d, "dbname="):
		return DSNPostgres
	default:
		return DSNSQLite
	}
}

// NewDBPool initializes a new pgx connection pool for dsn.
func NewDBPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database url is required")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
