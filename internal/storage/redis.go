package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the slice of *redis.Client the store needs.
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type RedisStorage struct {
	client RedisKV
	prefix string
}

func NewRedisStorage(client RedisKV, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, ErrStorageUnavailable
	}

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s from redis: %w", key, err)
	}
	return value, true, nil
}

// Set stores without expiry; the board lives until someone clears it.
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return ErrStorageUnavailable
	}

	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("writing %s to redis: %w", key, err)
	}
	return nil
}
