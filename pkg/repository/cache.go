package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// CacheRepository handles the short-TTL store of raw provider responses
type CacheRepository struct {
	db *sqlx.DB
}

// NewCacheRepository creates a new cache repository
func NewCacheRepository(database *sqlx.DB) *CacheRepository {
	return &CacheRepository{db: database}
}

// Get returns the cached payload for a key, or ok=false when the key is
// absent or expired. An expired row is a miss, its lazy overwrite happens on
// the next Put.
func (r *CacheRepository) Get(ctx context.Context, key string) (payload []byte, ok bool, err error) {
	var data []byte
	err = r.db.GetContext(ctx, &data, `
		SELECT response_data FROM content_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return data, true, nil
}

// Put upserts a cache entry unconditionally with the given TTL
func (r *CacheRepository) Put(ctx context.Context, key, source string, payload []byte, ttl time.Duration) error {
	now := time.Now().UTC()
	return r.PutWithExpiry(ctx, key, source, payload, now.Add(ttl))
}

// PutWithExpiry upserts a cache entry with an explicit expiry moment
func (r *CacheRepository) PutWithExpiry(ctx context.Context, key, source string, payload []byte, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO content_cache (cache_key, source, response_data, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			source = excluded.source,
			response_data = excluded.response_data,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, key, source, payload, time.Now().UTC(), expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Sweep deletes expired entries, returns the number removed
func (r *CacheRepository) Sweep(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM content_cache WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep cache rows affected: %w", err)
	}
	return removed, nil
}
