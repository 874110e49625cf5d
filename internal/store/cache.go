package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ahmadqo/campus-console/internal/repository"
)

// CacheStore persists small JSON values across restarts.
type CacheStore interface {
	// Get decodes the value into out; ok is false when the key is absent.
	Get(ctx context.Context, key string, out any) (ok bool, err error)
	Put(ctx context.Context, key string, value any) error
}

// DBCache stores values in Postgres through the cache repository.
type DBCache struct {
	repo repository.CacheRepository
}

func NewDBCache(repo repository.CacheRepository) *DBCache {
	return &DBCache{repo: repo}
}

func (c *DBCache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := c.repo.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *DBCache) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.repo.Put(ctx, key, raw)
}

// MemoryCache is a process-local CacheStore.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: map[string][]byte{}}
}

func (c *MemoryCache) Get(_ context.Context, key string, out any) (bool, error) {
	c.mu.RLock()
	raw, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *MemoryCache) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}
