package querycache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcommerce/internal/core/domain"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T, cfg Config) *Cache {
	t.Helper()
	c := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFetchCachesResult(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	calls := 0
	fetch := func(context.Context) (item, error) {
		calls++
		return item{ID: "1", Name: "first"}, nil
	}

	for range 3 {
		v, err := Fetch(ctx, c, NewKey("campaigns", "detail", "1"), fetch)
		require.NoError(t, err)
		assert.Equal(t, "first", v.Name)
	}

	assert.Equal(t, 1, calls)
	s := c.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 0.666, s.HitRatio, 0.01)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	key := NewKey("bundles", "detail", "x")

	_, err := Fetch(ctx, c, key, func(context.Context) (item, error) {
		return item{}, domain.NotFound("bundle", "x")
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	v, err := Fetch(ctx, c, key, func(context.Context) (item, error) { return item{ID: "x"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "x", v.ID)
}

func TestInvalidateByPrefix(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	root := NewKey("campaigns")
	for _, k := range []Key{root.With("detail", "1"), root.With("list", "all"), NewKey("campaignsx", "detail")} {
		require.NoError(t, Set(ctx, c, k, item{ID: k.String()}))
	}

	require.NoError(t, c.Invalidate(ctx, root.With("detail")))
	_, ok := c.lookup(ctx, root.With("detail", "1").String())
	assert.False(t, ok)
	_, ok = c.lookup(ctx, root.With("list", "all").String())
	assert.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, root))
	_, ok = c.lookup(ctx, root.With("list", "all").String())
	assert.False(t, ok)
	_, ok = c.lookup(ctx, "campaignsx:detail")
	assert.True(t, ok)
}

func TestMutateRestoresPreviousOnFailure(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	key := NewKey("campaigns", "detail", "1")
	require.NoError(t, Set(ctx, c, key, item{ID: "1", Name: "before"}))

	_, err := Mutate(ctx, c, key, item{ID: "1", Name: "optimistic"}, func(context.Context) (item, error) {
		got, ok := c.lookup(ctx, key.String())
		require.True(t, ok)
		assert.Contains(t, string(got), "optimistic")
		return item{}, errors.New("boom")
	})
	require.Error(t, err)

	v, err := Fetch(ctx, c, key, func(context.Context) (item, error) {
		t.Fatal("entry should have been restored")
		return item{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "before", v.Name)
}

func TestMutateStoresResult(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	key := NewKey("bundles", "detail", "b")

	_, err := Mutate(ctx, c, key, item{Name: "optimistic"}, func(context.Context) (item, error) {
		return item{ID: "b", Name: "saved"}, nil
	})
	require.NoError(t, err)

	raw, ok := c.lookup(ctx, key.String())
	require.True(t, ok)
	assert.Contains(t, string(raw), "saved")
}

func TestMutateWithoutPreviousRemovesOptimistic(t *testing.T) {
	c := newTestCache(t, Config{})
	ctx := context.Background()
	key := NewKey("bundles", "detail", "b")

	_, err := Mutate(ctx, c, key, item{Name: "optimistic"}, func(context.Context) (item, error) {
		return item{}, errors.New("boom")
	})
	require.Error(t, err)

	_, ok := c.lookup(ctx, key.String())
	assert.False(t, ok)
}

func TestRetryTransientOnly(t *testing.T) {
	c := newTestCache(t, Config{Retry: RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}})
	ctx := context.Background()

	calls := 0
	v, err := Fetch(ctx, c, NewKey("products", "1"), func(context.Context) (item, error) {
		calls++
		if calls < 3 {
			return item{}, domain.Store("failed to load product", errors.New("connection reset"))
		}
		return item{ID: "1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", v.ID)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = Fetch(ctx, c, NewKey("products", "2"), func(context.Context) (item, error) {
		calls++
		return item{}, domain.NotFound("product", "2")
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestNilCacheFetchesDirectly(t *testing.T) {
	var c *Cache
	v, err := Fetch(context.Background(), c, NewKey("a"), func(context.Context) (int, error) { return 7, nil })

	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.NoError(t, c.Invalidate(context.Background(), NewKey("a")))
}

func TestMemoryLayerExpiryAndEviction(t *testing.T) {
	ml := newMemoryLayer(2)
	t.Cleanup(func() { _ = ml.close() })
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ml.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, ml.set(ctx, "a", []byte("1"), time.Minute))
	now = now.Add(time.Second)
	require.NoError(t, ml.set(ctx, "b", []byte("2"), time.Minute))
	now = now.Add(time.Second)
	require.NoError(t, ml.set(ctx, "c", []byte("3"), time.Minute))

	assert.Equal(t, 2, ml.size())
	_, err := ml.get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	now = now.Add(2 * time.Minute)
	_, err = ml.get(ctx, "c")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestKeyString(t *testing.T) {
	k := NewKey("metrics", "c1").With("summary")

	assert.Equal(t, "metrics:c1:summary", k.String())
}
