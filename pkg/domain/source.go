package domain

import "time"

// DataSource describes one external provider and its operational limits
type DataSource struct {
	ID                 int64
	Name               string
	DisplayName        string
	BaseURL            string
	RateLimitPerMinute int
	IsActive           bool
	LastUsedAt         *time.Time
	Config             map[string]string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CallOutcome describes how a single provider call ended
type CallOutcome string

// call outcomes, recorded with every call history row
const (
	OutcomeSuccess     CallOutcome = "success"
	OutcomeCached      CallOutcome = "cached"
	OutcomeRateLimited CallOutcome = "rate_limited"
	OutcomeError       CallOutcome = "error"
)

// CallRecord is one append-only audit row for a provider call, kept whether
// the call succeeded or not
type CallRecord struct {
	ID              int64
	Source          string
	Timestamp       time.Time
	Request         string
	StatusCode      int
	ItemsFound      int
	ItemsSaved      int
	Outcome         CallOutcome
	ErrorMessage    string
	ResponseContent string
}
