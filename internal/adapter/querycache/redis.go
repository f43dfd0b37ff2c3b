package querycache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisNamespace = "mcommerce:qc:"

// RedisLayer shares cached queries between instances.
type RedisLayer struct {
	client *redis.Client
}

// NewRedisLayer wraps a connected client.
func NewRedisLayer(client *redis.Client) *RedisLayer {
	return &RedisLayer{client: client}
}

func (rl *RedisLayer) name() string { return "redis" }

func (rl *RedisLayer) get(ctx context.Context, key string) ([]byte, error) {
	data, err := rl.client.Get(ctx, redisNamespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return data, nil
}

func (rl *RedisLayer) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := rl.client.Set(ctx, redisNamespace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (rl *RedisLayer) del(ctx context.Context, key string) error {
	if err := rl.client.Del(ctx, redisNamespace+key).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// deletePrefix removes the exact key and every key below it using SCAN, so
// large keyspaces are never blocked by KEYS.
func (rl *RedisLayer) deletePrefix(ctx context.Context, prefix string) error {
	if err := rl.del(ctx, prefix); err != nil {
		return err
	}
	pattern := redisNamespace + globEscaper.Replace(prefix) + keySep + "*"
	iter := rl.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := rl.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis delete error: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan error: %w", err)
	}
	if len(batch) > 0 {
		if err := rl.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis delete error: %w", err)
		}
	}
	return nil
}

func (rl *RedisLayer) close() error {
	return rl.client.Close()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
