package querycache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisLayer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rl := NewRedisLayer(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rl.close() })
	return rl, mr
}

func TestRedisDeletePrefixEscapesGlob(t *testing.T) {
	rl, mr := newTestRedis(t)
	ctx := context.Background()
	for _, k := range []string{"a*", "a*:1", "ab:1", "a:1", "a?:1", "[a]:1"} {
		require.NoError(t, rl.set(ctx, k, []byte("v"), time.Minute))
	}

	require.NoError(t, rl.deletePrefix(ctx, "a*"))

	assert.False(t, mr.Exists(redisNamespace+"a*"))
	assert.False(t, mr.Exists(redisNamespace+"a*:1"))
	for _, k := range []string{"ab:1", "a:1", "a?:1", "[a]:1"} {
		assert.True(t, mr.Exists(redisNamespace+k), k)
	}

	require.NoError(t, rl.deletePrefix(ctx, "[a]"))
	assert.False(t, mr.Exists(redisNamespace+"[a]:1"))
	assert.True(t, mr.Exists(redisNamespace+"a:1"))
}

func TestRedisDeletePrefixSpansScanBatches(t *testing.T) {
	rl, mr := newTestRedis(t)
	ctx := context.Background()
	for i := range 250 {
		require.NoError(t, rl.set(ctx, fmt.Sprintf("campaigns:detail:%03d", i), []byte("v"), time.Minute))
	}
	require.NoError(t, rl.set(ctx, "campaignsx:1", []byte("v"), time.Minute))
	require.NoError(t, rl.set(ctx, "contents:list", []byte("v"), time.Minute))

	require.NoError(t, rl.deletePrefix(ctx, "campaigns"))

	assert.ElementsMatch(t, []string{redisNamespace + "campaignsx:1", redisNamespace + "contents:list"}, mr.Keys())
}
