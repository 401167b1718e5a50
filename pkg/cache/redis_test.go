package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisCacheFromClient(client)
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", []byte("<svg/>"), time.Hour))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"k"))

	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "<svg/>", string(data))

	require.NoError(t, c.Delete(ctx, "k"))
	_, hit, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "k", []byte("x"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"a"))
	assert.True(t, mr.Exists("other:key"), "Clear must only touch prefixed keys")
}

func TestRedisCache_Prefix(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRedisCacheFromClient(client, WithRedisPrefix("test:"))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("test:k"))
	require.NoError(t, c.Close())

	// Close must not close a borrowed client.
	assert.NoError(t, client.Ping(ctx).Err())
}

func TestNewRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := NewRedisCache(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Close())

	_, err = NewRedisCache(ctx, "not a url")
	assert.Error(t, err)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedisCache(ctx, "redis://"+addr)
	assert.ErrorIs(t, err, ErrUnavailable)
}
