package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mybriefings/briefings/pkg/domain"
)

// SourceRepository handles data source records
type SourceRepository struct {
	db *sqlx.DB
}

// sourceSQL represents a data source row for SQL operations
type sourceSQL struct {
	ID                 int64         `db:"id"`
	Name               string        `db:"name"`
	DisplayName        string        `db:"display_name"`
	BaseURL            string        `db:"base_url"`
	RateLimitPerMinute int           `db:"rate_limit_per_minute"`
	IsActive           bool          `db:"is_active"`
	LastUsedAt         *time.Time    `db:"last_used_at"`
	Config             jsonStringMap `db:"config"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(database *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: database}
}

// Ensure inserts a data source if one with the same name does not exist yet.
// Existing rows keep their admin-set state, seeding never overwrites.
func (r *SourceRepository) Ensure(ctx context.Context, src *domain.DataSource) error {
	now := time.Now().UTC()
	row := &sourceSQL{
		Name:               src.Name,
		DisplayName:        src.DisplayName,
		BaseURL:            src.BaseURL,
		RateLimitPerMinute: src.RateLimitPerMinute,
		IsActive:           src.IsActive,
		Config:             jsonStringMap(src.Config),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO data_sources (name, display_name, base_url, rate_limit_per_minute, is_active, config, created_at, updated_at)
		VALUES (:name, :display_name, :base_url, :rate_limit_per_minute, :is_active, :config, :created_at, :updated_at)
		ON CONFLICT(name) DO NOTHING
	`, row)
	if err != nil {
		return fmt.Errorf("ensure data source: %w", err)
	}
	return nil
}

// GetByName retrieves a data source by its unique name
func (r *SourceRepository) GetByName(ctx context.Context, name string) (*domain.DataSource, error) {
	var row sourceSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM data_sources WHERE name = ?", name); err != nil {
		return nil, fmt.Errorf("get data source %q: %w", name, err)
	}
	return toDomainSource(&row), nil
}

// List retrieves all data sources ordered by name
func (r *SourceRepository) List(ctx context.Context) ([]domain.DataSource, error) {
	var rows []sourceSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM data_sources ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list data sources: %w", err)
	}

	sources := make([]domain.DataSource, len(rows))
	for i := range rows {
		sources[i] = *toDomainSource(&rows[i])
	}
	return sources, nil
}

// Toggle flips is_active for a source and returns the new state
func (r *SourceRepository) Toggle(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE data_sources SET is_active = NOT is_active, updated_at = ? WHERE name = ?
	`, time.Now().UTC(), name)
	if err != nil {
		return false, fmt.Errorf("toggle data source %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle data source rows affected: %w", err)
	}
	if affected == 0 {
		return false, fmt.Errorf("data source %q not found", name)
	}

	var active bool
	if err := r.db.GetContext(ctx, &active, "SELECT is_active FROM data_sources WHERE name = ?", name); err != nil {
		return false, fmt.Errorf("read toggled state: %w", err)
	}
	return active, nil
}

// UpdateLastUsed stamps the moment a source was last called
func (r *SourceRepository) UpdateLastUsed(ctx context.Context, name string, usedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE data_sources SET last_used_at = ?, updated_at = ? WHERE name = ?
	`, usedAt.UTC(), time.Now().UTC(), name); err != nil {
		return fmt.Errorf("update last used: %w", err)
	}
	return nil
}

// toDomainSource converts a SQL row to a domain data source
func toDomainSource(row *sourceSQL) *domain.DataSource {
	return &domain.DataSource{
		ID:                 row.ID,
		Name:               row.Name,
		DisplayName:        row.DisplayName,
		BaseURL:            row.BaseURL,
		RateLimitPerMinute: row.RateLimitPerMinute,
		IsActive:           row.IsActive,
		LastUsedAt:         row.LastUsedAt,
		Config:             map[string]string(row.Config),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
