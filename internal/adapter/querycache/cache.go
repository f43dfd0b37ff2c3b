// Package querycache is the client-side query cache in front of the
// repositories. Entries are addressed by hierarchical keys such as
// [campaigns, detail, <id>] and can be invalidated by any key prefix.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"mcommerce/internal/metrics"
)

// ErrCacheMiss is returned by a layer that does not hold the key.
var ErrCacheMiss = errors.New("cache miss")

const keySep = ":"

// Key is a hierarchical cache key: entity, operation, then parameters.
type Key []string

// NewKey builds a key from its parts.
func NewKey(parts ...string) Key {
	return Key(parts)
}

// String renders the key as stored by the layers.
func (k Key) String() string {
	return strings.Join(k, keySep)
}

// With returns a child key.
func (k Key) With(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

// layer is one storage tier of the cache. Values are JSON documents.
type layer interface {
	name() string
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
	deletePrefix(ctx context.Context, prefix string) error
	close() error
}

// Config holds cache configuration.
type Config struct {
	DefaultTTL time.Duration
	MemorySize int
	Retry      RetryPolicy
}

// Stats holds cache performance statistics.
type Stats struct {
	Hits     int64
	Misses   int64
	Errors   int64
	HitRatio float64
}

// Cache checks memory first, then redis when configured, then the fetcher.
// A nil *Cache is valid: every Fetch goes straight to the fetcher.
type Cache struct {
	layers  []layer
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	stats Stats
}

// Option customizes a Cache.
type Option func(*Cache)

// WithRedis adds a shared redis layer behind the memory layer.
func WithRedis(l *RedisLayer) Option {
	return func(c *Cache) {
		if l != nil {
			c.layers = append(c.layers, l)
		}
	}
}

// WithMetrics records lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New creates a cache with an in-memory layer.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 5 * time.Minute
	}
	if cfg.MemorySize <= 0 {
		cfg.MemorySize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		layers: []layer{newMemoryLayer(cfg.MemorySize)},
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases every layer.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, l := range c.layers {
		if err := l.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRatio = float64(s.Hits) / float64(total)
	}
	return s
}

// Invalidate removes every entry whose key starts with prefix.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) error {
	if c == nil {
		return nil
	}
	var errs []error
	for _, l := range c.layers {
		if err := l.deletePrefix(ctx, prefix.String()); err != nil {
			errs = append(errs, fmt.Errorf("%s invalidate: %w", l.name(), err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		c.recordError()
		return err
	}
	return nil
}

// lookup walks the layers in order and warms the faster ones on a hit.
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	for i, l := range c.layers {
		data, err := l.get(ctx, key)
		if err == nil {
			c.metrics.CacheLookup(l.name(), "hit")
			for _, warm := range c.layers[:i] {
				_ = warm.set(ctx, key, data, c.cfg.DefaultTTL)
			}
			return data, true
		}
		if errors.Is(err, ErrCacheMiss) {
			c.metrics.CacheLookup(l.name(), "miss")
			continue
		}
		c.metrics.CacheLookup(l.name(), "error")
		c.recordError()
		c.logger.Warn("query cache read failed",
			slog.String("layer", l.name()), slog.String("key", key), slog.Any("error", err))
	}
	return nil, false
}

// store writes to every layer. Failures are logged, never returned.
func (c *Cache) store(ctx context.Context, key string, data []byte) {
	for _, l := range c.layers {
		if err := l.set(ctx, key, data, c.cfg.DefaultTTL); err != nil {
			c.recordError()
			c.logger.Warn("query cache write failed",
				slog.String("layer", l.name()), slog.String("key", key), slog.Any("error", err))
		}
	}
}

func (c *Cache) remove(ctx context.Context, key string) {
	for _, l := range c.layers {
		if err := l.del(ctx, key); err != nil {
			c.recordError()
			c.logger.Warn("query cache delete failed",
				slog.String("layer", l.name()), slog.String("key", key), slog.Any("error", err))
		}
	}
}

// Set overwrites the entry for key.
func Set[T any](ctx context.Context, c *Cache, key Key, value T) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.store(ctx, key.String(), data)
	return nil
}

// Fetch returns the cached value for key or loads it with fetch, retrying
// transient failures, and caches the result.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}
	k := key.String()
	if data, ok := c.lookup(ctx, k); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.recordHit()
			return v, nil
		}
		c.remove(ctx, k)
	}
	c.recordMiss()

	v, err := retry(ctx, c.cfg.Retry, c.metrics, fetch)
	if err != nil {
		return v, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("query cache encode failed", slog.String("key", k), slog.Any("error", err))
		return v, nil
	}
	c.store(ctx, k, data)
	return v, nil
}

// Mutate writes optimistic under key before running mutate. When mutate fails
// the previous entry is restored; on success its result replaces the
// optimistic value.
func Mutate[T any](ctx context.Context, c *Cache, key Key, optimistic T, mutate func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return mutate(ctx)
	}
	k := key.String()
	previous, hadPrevious := c.lookup(ctx, k)
	if data, err := json.Marshal(optimistic); err == nil {
		c.store(ctx, k, data)
	}

	v, err := mutate(ctx)
	if err != nil {
		if hadPrevious {
			c.store(ctx, k, previous)
		} else {
			c.remove(ctx, k)
		}
		return v, err
	}
	if data, merr := json.Marshal(v); merr == nil {
		c.store(ctx, k, data)
	} else {
		c.remove(ctx, k)
	}
	return v, nil
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

func (c *Cache) recordError() {
	c.mu.Lock()
	c.stats.Errors++
	c.mu.Unlock()
}
