package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/mybriefings/briefings/pkg/domain"
)

// FeedItemRepository handles feed item persistence
type FeedItemRepository struct {
	db *sqlx.DB
}

// feedItemSQL represents a feed item row for SQL operations
type feedItemSQL struct {
	ID              int64          `db:"id"`
	DedupKey        string         `db:"dedup_key"`
	Title           string         `db:"title"`
	Summary         string         `db:"summary"`
	Content         string         `db:"content"`
	URL             string         `db:"url"`
	Source          string         `db:"source"`
	DataSourceID    sql.NullInt64  `db:"data_source_id"`
	PublishedAt     *time.Time     `db:"published_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	Category        string         `db:"category"`
	IsRelevant      bool           `db:"is_relevant"`
	RelevanceReason sql.NullString `db:"relevance_reason"`
	IsProcessed     bool           `db:"is_processed"`
	RawData         jsonMap        `db:"raw_data"`
}

// NewFeedItemRepository creates a new feed item repository
func NewFeedItemRepository(database *sqlx.DB) *FeedItemRepository {
	return &FeedItemRepository{db: database}
}

// UpsertBatch writes one runner invocation's filtered items as a single
// transaction. Existing rows are matched by dedup_key; mutable fields are
// updated only when the new value is non-empty and different, and a non-null
// field is never overwritten with null. Returns per-batch counts.
func (r *FeedItemRepository) UpsertBatch(ctx context.Context, items []domain.FeedItem) (domain.WriteSummary, error) {
	var summary domain.WriteSummary
	if len(items) == 0 {
		return summary, nil
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err := retrier.Do(ctx, func() error {
		s, err := r.upsertBatchTx(ctx, items)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		summary = s
		return nil
	})
	if err != nil {
		var crit *criticalError
		if errors.As(err, &crit) {
			return domain.WriteSummary{}, crit.err
		}
		return domain.WriteSummary{}, err
	}
	return summary, nil
}

// upsertBatchTx runs the whole batch inside one transaction, all-or-nothing
func (r *FeedItemRepository) upsertBatchTx(ctx context.Context, items []domain.FeedItem) (domain.WriteSummary, error) {
	var summary domain.WriteSummary

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range items {
		outcome, err := r.upsertOne(ctx, tx, &items[i], now)
		if err != nil {
			return domain.WriteSummary{}, err
		}
		switch outcome {
		case writeCreated:
			summary.Created++
		case writeUpdated:
			summary.Updated++
		case writeSkipped:
			summary.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.WriteSummary{}, fmt.Errorf("commit batch: %w", err)
	}
	return summary, nil
}

type writeOutcome int

const (
	writeCreated writeOutcome = iota
	writeUpdated
	writeSkipped
)

// upsertOne inserts or updates a single item by dedup key. The insert uses
// ON CONFLICT DO NOTHING so a concurrent job racing on the same key cannot
// produce a duplicate row; a lost race falls through to the update path.
func (r *FeedItemRepository) upsertOne(ctx context.Context, tx *sqlx.Tx, item *domain.FeedItem, now time.Time) (writeOutcome, error) {
	row := toFeedItemSQL(item, now)

	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO feed_items (
			dedup_key, title, summary, content, url, source, data_source_id,
			published_at, created_at, updated_at, category,
			is_relevant, relevance_reason, is_processed, raw_data
		) VALUES (
			:dedup_key, :title, :summary, :content, :url, :source, :data_source_id,
			:published_at, :created_at, :updated_at, :category,
			:is_relevant, :relevance_reason, :is_processed, :raw_data
		)
		ON CONFLICT(dedup_key) DO NOTHING
	`, row)
	if err != nil {
		return 0, fmt.Errorf("insert feed item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert feed item rows affected: %w", err)
	}
	if affected > 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("get insert id: %w", err)
		}
		item.ID = id
		return writeCreated, nil
	}

	// row exists, update mutable fields only when the new value is non-empty
	// and different
	res, err = tx.NamedExecContext(ctx, `
		UPDATE feed_items SET
			summary = CASE WHEN :summary != '' AND :summary != summary THEN :summary ELSE summary END,
			content = CASE WHEN :content != '' AND :content != content THEN :content ELSE content END,
			relevance_reason = COALESCE(:relevance_reason, relevance_reason),
			is_relevant = :is_relevant,
			is_processed = :is_processed,
			updated_at = :updated_at
		WHERE dedup_key = :dedup_key
		AND (
			(:summary != '' AND :summary != summary) OR
			(:content != '' AND :content != content) OR
			(:relevance_reason IS NOT NULL AND :relevance_reason IS NOT relevance_reason) OR
			is_relevant != :is_relevant OR
			is_processed != :is_processed
		)
	`, row)
	if err != nil {
		return 0, fmt.Errorf("update feed item: %w", err)
	}

	affected, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update feed item rows affected: %w", err)
	}
	if affected > 0 {
		return writeUpdated, nil
	}
	return writeSkipped, nil
}

// GetByDedupKey retrieves a single item by its dedup key
func (r *FeedItemRepository) GetByDedupKey(ctx context.Context, key string) (*domain.FeedItem, error) {
	var row feedItemSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM feed_items WHERE dedup_key = ?", key); err != nil {
		return nil, fmt.Errorf("get feed item by dedup key: %w", err)
	}
	return toDomainFeedItem(&row), nil
}

// GetItems retrieves feed items matching the query, newest first
func (r *FeedItemRepository) GetItems(ctx context.Context, q domain.FeedQuery) ([]domain.FeedItem, error) {
	query := "SELECT * FROM feed_items WHERE 1=1"
	args := []any{}

	if q.Category != "" {
		query += " AND category = ?"
		args = append(args, q.Category)
	}
	if q.Source != "" {
		query += " AND source = ?"
		args = append(args, q.Source)
	}
	if !q.Since.IsZero() {
		query += " AND (published_at >= ? OR (published_at IS NULL AND created_at >= ?))"
		args = append(args, q.Since, q.Since)
	}
	if q.RelevantOnly {
		query += " AND is_relevant = 1"
	}

	query += " ORDER BY COALESCE(published_at, created_at) DESC"

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var rows []feedItemSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get feed items: %w", err)
	}

	items := make([]domain.FeedItem, len(rows))
	for i := range rows {
		items[i] = *toDomainFeedItem(&rows[i])
	}
	return items, nil
}

// CountItems returns the total number of feed items
func (r *FeedItemRepository) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM feed_items"); err != nil {
		return 0, fmt.Errorf("count feed items: %w", err)
	}
	return count, nil
}

// CountBySource returns item counts keyed by source display string
func (r *FeedItemRepository) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT source, COUNT(*) FROM feed_items GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("count feed items by source: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		counts[source] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source counts: %w", err)
	}
	return counts, nil
}

// toFeedItemSQL converts a domain item to its SQL representation
func toFeedItemSQL(item *domain.FeedItem, now time.Time) *feedItemSQL {
	row := &feedItemSQL{
		DedupKey:    item.DedupKey,
		Title:       item.Title,
		Summary:     item.Summary,
		Content:     item.Content,
		URL:         item.URL,
		Source:      item.Source,
		PublishedAt: item.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
		Category:    item.Category,
		IsRelevant:  item.IsRelevant,
		IsProcessed: item.IsProcessed,
		RawData:     jsonMap(item.Raw),
	}
	if item.DataSourceID != 0 {
		row.DataSourceID = sql.NullInt64{Int64: item.DataSourceID, Valid: true}
	}
	if item.RelevanceReason != "" {
		row.RelevanceReason = sql.NullString{String: item.RelevanceReason, Valid: true}
	}
	return row
}

// toDomainFeedItem converts a SQL row to a domain item
func toDomainFeedItem(row *feedItemSQL) *domain.FeedItem {
	return &domain.FeedItem{
		ID:              row.ID,
		DedupKey:        row.DedupKey,
		Title:           row.Title,
		Summary:         row.Summary,
		Content:         row.Content,
		URL:             row.URL,
		Source:          row.Source,
		DataSourceID:    row.DataSourceID.Int64,
		Published:       row.PublishedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Category:        row.Category,
		IsRelevant:      row.IsRelevant,
		RelevanceReason: row.RelevanceReason.String,
		IsProcessed:     row.IsProcessed,
		Raw:             map[string]any(row.RawData),
	}
}
