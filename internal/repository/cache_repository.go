package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
)

// CacheRepository keeps small JSON documents (lookup maps) that pages fall
// back to when the backend is unreachable.
type CacheRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
}

type cacheRepository struct {
	db *sqlx.DB
}

func NewCacheRepository(db *sqlx.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value []byte
	err := r.db.GetContext(ctx, &value, `SELECT value FROM lookup_cache WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(value), true, nil
}

func (r *cacheRepository) Put(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lookup_cache (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, []byte(value))
	return err
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM lookup_cache WHERE key = $1`, key)
	return err
}
