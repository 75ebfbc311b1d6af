package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the document as a string value at projectflow:{key}
type RedisBackend struct {
	rdb *redis.Client
	key string
}

// NewRedisBackend creates a redis backend. The key must not be empty.
func NewRedisBackend(opts *redis.Options, key string) (*RedisBackend, error) {
	if key == "" {
		return nil, fmt.Errorf("document key cannot be empty")
	}
	return &RedisBackend{
		rdb: redis.NewClient(opts),
		key: RedisKey(key),
	}, nil
}

// RedisKey returns the namespaced redis key for a document name
func RedisKey(key string) string {
	return "projectflow:" + key
}

// Ping verifies Redis connectivity
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Get reads the document value
func (r *RedisBackend) Get(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document from Redis: %w", err)
	}
	return data, nil
}

// Set writes the document value without expiry
func (r *RedisBackend) Set(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document to Redis: %w", err)
	}
	return nil
}

// Delete removes the document key
func (r *RedisBackend) Delete(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete document from Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisBackend) Close() error {
	return r.rdb.Close()
}
