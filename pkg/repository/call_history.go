package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mybriefings/briefings/pkg/domain"
)

// CallHistoryRepository handles the append-only provider call audit trail.
// Rows are never updated or deleted here; retention is an external concern.
type CallHistoryRepository struct {
	db *sqlx.DB
}

// callRecordSQL represents a call history row for SQL operations
type callRecordSQL struct {
	ID              int64     `db:"id"`
	Source          string    `db:"source"`
	Timestamp       time.Time `db:"timestamp"`
	Request         string    `db:"request"`
	StatusCode      int       `db:"status_code"`
	ItemsFound      int       `db:"items_found"`
	ItemsSaved      int       `db:"items_saved"`
	Outcome         string    `db:"outcome"`
	ErrorMessage    string    `db:"error_message"`
	ResponseContent string    `db:"response_content"`
}

// NewCallHistoryRepository creates a new call history repository
func NewCallHistoryRepository(database *sqlx.DB) *CallHistoryRepository {
	return &CallHistoryRepository{db: database}
}

// Record appends one call record, success or failure alike
func (r *CallHistoryRepository) Record(ctx context.Context, rec *domain.CallRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	row := &callRecordSQL{
		Source:          rec.Source,
		Timestamp:       rec.Timestamp.UTC(),
		Request:         rec.Request,
		StatusCode:      rec.StatusCode,
		ItemsFound:      rec.ItemsFound,
		ItemsSaved:      rec.ItemsSaved,
		Outcome:         string(rec.Outcome),
		ErrorMessage:    rec.ErrorMessage,
		ResponseContent: rec.ResponseContent,
	}

	res, err := r.db.NamedExecContext(ctx, `
		INSERT INTO call_history (
			source, timestamp, request, status_code, items_found, items_saved,
			outcome, error_message, response_content
		) VALUES (
			:source, :timestamp, :request, :status_code, :items_found, :items_saved,
			:outcome, :error_message, :response_content
		)
	`, row)
	if err != nil {
		return fmt.Errorf("record call: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// CountSince counts calls for a source with timestamps after the given moment.
// Only outcomes that consumed a provider call are counted; cache hits and
// rate-limit skips never reached the provider.
func (r *CallHistoryRepository) CountSince(ctx context.Context, source string, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM call_history
		WHERE source = ? AND timestamp > ? AND outcome IN (?, ?)
	`, source, since.UTC(), domain.OutcomeSuccess, domain.OutcomeError)
	if err != nil {
		return 0, fmt.Errorf("count calls since: %w", err)
	}
	return count, nil
}

// Recent retrieves the latest records for a source, newest first
func (r *CallHistoryRepository) Recent(ctx context.Context, source string, limit int) ([]domain.CallRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []callRecordSQL
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM call_history WHERE source = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("recent calls: %w", err)
	}

	records := make([]domain.CallRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.CallRecord{
			ID:              row.ID,
			Source:          row.Source,
			Timestamp:       row.Timestamp,
			Request:         row.Request,
			StatusCode:      row.StatusCode,
			ItemsFound:      row.ItemsFound,
			ItemsSaved:      row.ItemsSaved,
			Outcome:         domain.CallOutcome(row.Outcome),
			ErrorMessage:    row.ErrorMessage,
			ResponseContent: row.ResponseContent,
		}
	}
	return records, nil
}
