package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"mcommerce/internal/config/configs"
)

// NewRedisClient connects to the cache redis and pings it with a 5 second
// timeout. The caller must close the returned client.
func NewRedisClient(ctx context.Context, cfg configs.Cache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
