package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T, prefix string) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)

	c := New(client, 30*time.Second, prefix, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, "frontdesk")

	_, ok, err := c.Get(ctx, "board")
	require.NoError(t, err)
	assert.False(t, ok, "missing key is not an error")

	require.NoError(t, c.Set(ctx, "board", []byte("v1")))
	assert.True(t, mr.Exists("frontdesk:board"))
	assert.Equal(t, 30*time.Second, mr.TTL("frontdesk:board"))

	got, ok, err := c.Get(ctx, "board")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, c.Delete(ctx, "board"))
	assert.False(t, mr.Exists("frontdesk:board"))
}

func TestRedisCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, "")

	require.NoError(t, c.Set(ctx, "board", []byte("v1")))
	assert.True(t, mr.Exists("board"))

	mr.FastForward(30 * time.Second)
	_, ok, err := c.Get(ctx, "board")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheReportsConnectionErrors(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, "frontdesk")
	mr.Close()

	_, _, err := c.Get(ctx, "board")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "board", []byte("v1")))
	assert.Error(t, c.Delete(ctx, "board"))
}

func TestNewRedisClientFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), Config{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
