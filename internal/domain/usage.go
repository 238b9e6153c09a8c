package domain

import "time"

// Operation names recorded in usage counters.
const (
	OperationGenerateMessage  = "generate_message"
	OperationGenerateMultiple = "generate_multiple_messages"
	OperationAnalyzeMessage   = "analyze_message"
)

// UsageEvent records that an operation ran. It never carries message text.
type UsageEvent struct {
	Operation string
	Success   bool
	// Count is the number of backend results the operation produced.
	Count int
	At    time.Time
}

// UsageCounters aggregates events for one operation.
type UsageCounters struct {
	Requests       int `json:"requests"`
	Messages       int `json:"messages"`
	RequestSuccess int `json:"request_success"`
	RequestFail    int `json:"request_fail"`
}

// UsageSummary stores aggregated counters per operation.
type UsageSummary struct {
	Operations map[string]UsageCounters `json:"operations"`
	Today      map[string]UsageCounters `json:"today"`
}
