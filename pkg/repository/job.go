package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mybriefings/briefings/pkg/domain"
)

// JobRepository handles ingestion job persistence
type JobRepository struct {
	db *sqlx.DB
}

// jobSQL represents an ingestion job row for SQL operations
type jobSQL struct {
	ID             int64         `db:"id"`
	JobType        string        `db:"job_type"`
	Status         string        `db:"status"`
	StartedAt      *time.Time    `db:"started_at"`
	CompletedAt    *time.Time    `db:"completed_at"`
	ErrorMessage   string        `db:"error_message"`
	Parameters     jsonMap       `db:"parameters"`
	ItemsProcessed int           `db:"items_processed"`
	ItemsCreated   int           `db:"items_created"`
	ItemsUpdated   int           `db:"items_updated"`
	DataSourceID   sql.NullInt64 `db:"data_source_id"`
	CreatedAt      time.Time     `db:"created_at"`
}

// NewJobRepository creates a new job repository
func NewJobRepository(database *sqlx.DB) *JobRepository {
	return &JobRepository{db: database}
}

// Create inserts a new job in pending state
func (r *JobRepository) Create(ctx context.Context, job *domain.IngestionJob) error {
	row := &jobSQL{
		JobType:    job.Type,
		Status:     string(domain.JobPending),
		Parameters: jsonMap(job.Parameters),
		CreatedAt:  time.Now().UTC(),
	}
	if job.DataSourceID != nil {
		row.DataSourceID = sql.NullInt64{Int64: *job.DataSourceID, Valid: true}
	}

	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO ingestion_jobs (job_type, status, parameters, data_source_id, created_at)
		VALUES (:job_type, :status, :parameters, :data_source_id, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}
	job.ID = id
	job.Status = domain.JobPending
	job.CreatedAt = row.CreatedAt
	return nil
}

// MarkRunning transitions a pending job to running and stamps started_at
func (r *JobRepository) MarkRunning(ctx context.Context, id int64, startedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_jobs SET status = ?, started_at = ?
		WHERE id = ? AND status = ?
	`, domain.JobRunning, startedAt.UTC(), id, domain.JobPending)
	if err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark job running rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %d is not pending", id)
	}
	return nil
}

// Complete finalizes a job with aggregate counts. Terminal states are
// write-once: a job already completed or failed is left untouched.
func (r *JobRepository) Complete(ctx context.Context, id int64, processed, created, updated int, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_jobs
		SET status = ?, items_processed = ?, items_created = ?, items_updated = ?, completed_at = ?
		WHERE id = ? AND status NOT IN (?, ?)
	`, domain.JobCompleted, processed, created, updated, completedAt.UTC(),
		id, domain.JobCompleted, domain.JobFailed)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete job rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %d already terminal", id)
	}
	return nil
}

// Fail finalizes a job with an error message
func (r *JobRepository) Fail(ctx context.Context, id int64, errMsg string, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_jobs SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ? AND status NOT IN (?, ?)
	`, domain.JobFailed, errMsg, completedAt.UTC(), id, domain.JobCompleted, domain.JobFailed)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fail job rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %d already terminal", id)
	}
	return nil
}

// Get retrieves a job by ID
func (r *JobRepository) Get(ctx context.Context, id int64) (*domain.IngestionJob, error) {
	var row jobSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM ingestion_jobs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return toDomainJob(&row), nil
}

// List retrieves jobs, newest first, optionally filtered by status
func (r *JobRepository) List(ctx context.Context, status string, limit int) ([]domain.IngestionJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT * FROM ingestion_jobs"
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	var rows []jobSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]domain.IngestionJob, len(rows))
	for i := range rows {
		jobs[i] = *toDomainJob(&rows[i])
	}
	return jobs, nil
}

// CountByStatus returns job counts keyed by status
func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT status, COUNT(*) FROM ingestion_jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// toDomainJob converts a SQL row to a domain job
func toDomainJob(row *jobSQL) *domain.IngestionJob {
	job := &domain.IngestionJob{
		ID:             row.ID,
		Type:           row.JobType,
		Status:         domain.JobStatus(row.Status),
		StartedAt:      row.StartedAt,
		CompletedAt:    row.CompletedAt,
		ErrorMessage:   row.ErrorMessage,
		Parameters:     map[string]any(row.Parameters),
		ItemsProcessed: row.ItemsProcessed,
		ItemsCreated:   row.ItemsCreated,
		ItemsUpdated:   row.ItemsUpdated,
		CreatedAt:      row.CreatedAt,
	}
	if row.DataSourceID.Valid {
		id := row.DataSourceID.Int64
		job.DataSourceID = &id
	}
	return job
}
