package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// cacheItem represents a cached document with expiration.
type cacheItem struct {
	data      []byte
	storedAt  time.Time
	expiresAt time.Time
}

func (ci *cacheItem) isExpired(now time.Time) bool {
	return now.After(ci.expiresAt)
}

// memoryLayer is the in-process TTL layer.
type memoryLayer struct {
	mu       sync.RWMutex
	items    map[string]*cacheItem
	maxSize  int
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

func newMemoryLayer(maxSize int) *memoryLayer {
	ml := &memoryLayer{
		items:    make(map[string]*cacheItem),
		maxSize:  maxSize,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	go ml.cleanup(time.Minute)
	return ml
}

func (ml *memoryLayer) name() string { return "memory" }

func (ml *memoryLayer) get(_ context.Context, key string) ([]byte, error) {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	item, ok := ml.items[key]
	if !ok || item.isExpired(ml.now()) {
		return nil, ErrCacheMiss
	}
	return item.data, nil
}

func (ml *memoryLayer) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	ml.items[key] = &cacheItem{data: value, storedAt: now, expiresAt: now.Add(ttl)}
	ml.evictIfNeeded(now)
	return nil
}

func (ml *memoryLayer) del(_ context.Context, key string) error {
	ml.mu.Lock()
	delete(ml.items, key)
	ml.mu.Unlock()
	return nil
}

func (ml *memoryLayer) deletePrefix(_ context.Context, prefix string) error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	for key := range ml.items {
		if key == prefix || strings.HasPrefix(key, prefix+keySep) {
			delete(ml.items, key)
		}
	}
	return nil
}

// evictIfNeeded drops expired items, then the oldest until under maxSize.
func (ml *memoryLayer) evictIfNeeded(now time.Time) {
	for key, item := range ml.items {
		if item.isExpired(now) {
			delete(ml.items, key)
		}
	}
	for len(ml.items) > ml.maxSize {
		var oldestKey string
		var oldest time.Time
		for key, item := range ml.items {
			if oldestKey == "" || item.storedAt.Before(oldest) {
				oldestKey, oldest = key, item.storedAt
			}
		}
		delete(ml.items, oldestKey)
	}
}

func (ml *memoryLayer) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ml.mu.Lock()
			now := ml.now()
			for key, item := range ml.items {
				if item.isExpired(now) {
					delete(ml.items, key)
				}
			}
			ml.mu.Unlock()
		case <-ml.stopChan:
			return
		}
	}
}

func (ml *memoryLayer) close() error {
	ml.stopOnce.Do(func() { close(ml.stopChan) })
	return nil
}

func (ml *memoryLayer) size() int {
	ml.mu.RLock()
	defer ml.mu.RUnlock()
	return len(ml.items)
}
