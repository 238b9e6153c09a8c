package domain

import "context"

// UsageRepository updates and reads operation counters.
type UsageRepository interface {
	Record(ctx context.Context, event UsageEvent) error
	Summary(ctx context.Context) (*UsageSummary, error)
	Close() error
}
