package domain

import "time"

// JobStatus represents the lifecycle state of an ingestion job
type JobStatus string

// job states, pending -> running -> completed|failed
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status is a final state
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// IngestionJob tracks one ingestion run across its lifecycle
type IngestionJob struct {
	ID             int64
	Type           string
	Status         JobStatus
	StartedAt      *time.Time
	CompletedAt    *time.Time
	ErrorMessage   string
	Parameters     map[string]any
	ItemsProcessed int
	ItemsCreated   int
	ItemsUpdated   int
	DataSourceID   *int64
	CreatedAt      time.Time
}
