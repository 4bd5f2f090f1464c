package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores the session as one Redis hash, so several processes (or
// machines) can share a login.
type RedisKV struct {
	client redis.UniversalClient
	key    string
}

// NewRedisKV creates a RedisKV storing fields under the hash key
func NewRedisKV(client redis.UniversalClient, key string) *RedisKV {
	return &RedisKV{client: client, key: key}
}

// HashKey returns the hash key used for an environment, e.g. vc:session:test
func HashKey(prefix, env string) string {
	if env == "" {
		return prefix
	}
	return prefix + ":" + env
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisKV) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.HSet(ctx, r.key, k, v)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
