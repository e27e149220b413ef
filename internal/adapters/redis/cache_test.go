package redisad

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightbnb/internal/domain"
)

var _ domain.Cache = (*Cache)(nil)

type entry struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got entry
	ok, err := c.Get(ctx, "user:id:1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "user:id:1", entry{ID: 1, Email: "a@b.com"}, 60))
	assert.True(t, mr.Exists("lightbnb:user:id:1"))
	assert.Equal(t, 60*time.Second, mr.TTL("lightbnb:user:id:1"))

	ok, err = c.Get(ctx, "user:id:1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry{ID: 1, Email: "a@b.com"}, got)
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{ID: 2}, 1))
	mr.FastForward(2 * time.Second)

	var got entry
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("lightbnb:k", "{not json"))

	var got entry
	ok, err := c.Get(context.Background(), "k", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	_, err := c.Get(context.Background(), "k", &entry{})
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
