package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"campaigngen/internal/domain"
	"campaigngen/internal/sqlinline"
)

// UsageRepositorySQLite implements domain.UsageRepository on a SQLite file.
type UsageRepositorySQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenUsageRepositorySQLite opens (and creates if needed) the database at path.
func OpenUsageRepositorySQLite(ctx context.Context, path string) (*UsageRepositorySQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqlinline.QCreateUsageDailySQLite); err != nil {
		return nil, closeDB(db, fmt.Errorf("create usage schema: %w", err))
	}
	return &UsageRepositorySQLite{db: db, now: time.Now}, nil
}

func (r *UsageRepositorySQLite) Record(ctx context.Context, event domain.UsageEvent) error {
	success, fail := outcomeCounters(event.Success)
	_, err := r.db.ExecContext(ctx, sqlinline.QUpsertUsageDailySQLite,
		dayOf(event.At).Format(time.DateOnly),
		event.Operation,
		event.Count,
		success,
		fail,
	)
	return err
}

func (r *UsageRepositorySQLite) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	rows, err := r.db.QueryContext(ctx, sqlinline.QListUsageDailySQLite)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	today := dayOf(r.now()).Format(time.DateOnly)
	summary := newSummary()
	for rows.Next() {
		var (
			day       string
			operation string
			c         domain.UsageCounters
		)
		if err := rows.Scan(&day, &operation, &c.Requests, &c.Messages, &c.RequestSuccess, &c.RequestFail); err != nil {
			return nil, err
		}
		accumulate(summary, operation, day == today, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *UsageRepositorySQLite) Close() error {
	return r.db.Close()
}

var _ domain.UsageRepository = (*UsageRepositorySQLite)(nil)
