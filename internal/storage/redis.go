// AngelaMos | 2026
// redis.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend stores every entry under "<prefix>:<scope>:<key>".
// A zero ttl keeps entries until the scope is cleared.
func NewRedisBackend(
	client *redis.Client,
	prefix string,
	ttl time.Duration,
) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisBackend) Get(ctx context.Context, scope, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, scope, key string, value []byte) error {
	if scope == "" {
		return ErrInvalidScope
	}

	if err := r.client.Set(ctx, r.key(scope, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, scope, key string) error {
	if err := r.client.Del(ctx, r.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

func (r *RedisBackend) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return ErrInvalidScope
	}

	pattern := r.key(scope, "*")
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis clear scope: %w", err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) key(scope, key string) string {
	return r.prefix + ":" + scope + ":" + key
}
