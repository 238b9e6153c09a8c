// Package repo holds the usage counter repositories.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"campaigngen/internal/domain"
	"campaigngen/internal/infra"
)

// OpenUsageRepository picks a backend from dsn: in-memory when empty,
// PostgreSQL for postgres URLs, SQLite otherwise.
func OpenUsageRepository(ctx context.Context, dsn string, logger zerolog.Logger) (domain.UsageRepository, error) {
	if dsn == "" {
		logger.Debug().Msg("usage: no DATABASE_URL, keeping counters in memory")
		return NewUsageRepositoryMemory(), nil
	}

	switch infra.DetectDSNType(dsn) {
	case infra.DSNPostgres:
		pool, err := infra.NewDBPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		runner := infra.NewSQLRunner(pool, logger.With().Str("component", "usage_pg").Logger())
		r := NewUsageRepositoryPG(runner, runner.Close)
		if err := r.EnsureSchema(ctx); err != nil {
			runner.Close()
			return nil, err
		}
		logger.Info().Msg("usage: counters stored in postgres")
		return r, nil
	default:
		r, err := OpenUsageRepositorySQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", dsn).Msg("usage: counters stored in sqlite")
		return r, nil
	}
}

// UsageRepositoryMemory keeps counters in process memory.
type UsageRepositoryMemory struct {
	mu       sync.Mutex
	counters map[usageKey]domain.UsageCounters
	now      func() time.Time
}

type usageKey struct {
	day       string
	operation string
}

func NewUsageRepositoryMemory() *UsageRepositoryMemory {
	return &UsageRepositoryMemory{counters: make(map[usageKey]domain.UsageCounters), now: time.Now}
}

func (m *UsageRepositoryMemory) Record(_ context.Context, event domain.UsageEvent) error {
	success, fail := outcomeCounters(event.Success)
	key := usageKey{day: dayOf(event.At).Format(time.DateOnly), operation: event.Operation}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counters[key]
	c.Requests++
	c.Messages += event.Count
	c.RequestSuccess += success
	c.RequestFail += fail
	m.counters[key] = c
	return nil
}

func (m *UsageRepositoryMemory) Summary(_ context.Context) (*domain.UsageSummary, error) {
	today := dayOf(m.now()).Format(time.DateOnly)

	m.mu.Lock()
	defer m.mu.Unlock()
	summary := newSummary()
	for key, c := range m.counters {
		accumulate(summary, key.operation, key.day == today, c)
	}
	return summary, nil
}

func (m *UsageRepositoryMemory) Close() error { return nil }

func dayOf(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func outcomeCounters(success bool) (int, int) {
	if success {
		return 1, 0
	}
	return 0, 1
}

func newSummary() *domain.UsageSummary {
	return &domain.UsageSummary{
		Operations: map[string]domain.UsageCounters{},
		Today:      map[string]domain.UsageCounters{},
	}
}

func accumulate(s *domain.UsageSummary, operation string, today bool, c domain.UsageCounters) {
	s.Operations[operation] = add(s.Operations[operation], c)
	if today {
		s.Today[operation] = add(s.Today[operation], c)
	}
}

func add(a, b domain.UsageCounters) domain.UsageCounters {
	return domain.UsageCounters{
		Requests:       a.Requests + b.Requests,
		Messages:       a.Messages + b.Messages,
		RequestSuccess: a.RequestSuccess + b.RequestSuccess,
		RequestFail:    a.RequestFail + b.RequestFail,
	}
}

func closeDB(db *sql.DB, err error) error {
	if cerr := db.Close(); cerr != nil {
		return fmt.Errorf("%w (close: %v)", err, cerr)
	}
	return err
}

var _ domain.UsageRepository = (*UsageRepositoryMemory)(nil)
