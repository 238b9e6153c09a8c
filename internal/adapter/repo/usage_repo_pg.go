package repo

import (
	"context"
	"fmt"
	"time"

	"campaigngen/internal/domain"
	"campaigngen/internal/infra"
	"campaigngen/internal/sqlinline"
)

// UsageRepositoryPG implements domain.UsageRepository using PostgreSQL.
type UsageRepositoryPG struct {
	sql   infra.SQLExecutor
	close func()
	now   func() time.Time
}

// NewUsageRepositoryPG constructs the repository. closeFn, if set, runs on Close.
func NewUsageRepositoryPG(sql infra.SQLExecutor, closeFn func()) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql, close: closeFn, now: time.Now}
}

// EnsureSchema creates the counters table when missing.
func (r *UsageRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateUsageDaily); err != nil {
		return fmt.Errorf("create usage schema: %w", err)
	}
	return nil
}

// Record upserts the counters for the event's day and operation.
func (r *UsageRepositoryPG) Record(ctx context.Context, event domain.UsageEvent) error {
	success, fail := outcomeCounters(event.Success)
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertUsageDaily,
		dayOf(event.At),
		event.Operation,
		event.Count,
		success,
		fail,
	)
	return err
}

// Summary aggregates all stored counters.
func (r *UsageRepositoryPG) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsageDaily)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	today := dayOf(r.now())
	summary := newSummary()
	for rows.Next() {
		var (
			day       time.Time
			operation string
			c         domain.UsageCounters
		)
		if err := rows.Scan(&day, &operation, &c.Requests, &c.Messages, &c.RequestSuccess, &c.RequestFail); err != nil {
			return nil, err
		}
		accumulate(summary, operation, day.Equal(today), c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Close releases the underlying pool.
func (r *UsageRepositoryPG) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
