package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	IDs []string `json:"ids"`
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got payload
	hit, err := c.GetJSON(ctx, "tree", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "tree", payload{IDs: []string{"A", "B"}}, time.Minute))

	hit, err = c.GetJSON(ctx, "tree", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"A", "B"}, got.IDs)

	require.NoError(t, c.Delete(ctx, "tree"))
	hit, err = c.GetJSON(ctx, "tree", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", payload{IDs: []string{"A"}}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "forever", payload{}, 0))

	now = now.Add(time.Minute)

	var got payload
	hit, err := c.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = c.GetJSON(ctx, "forever", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: addr, Prefix: "test:" + time.Now().Format("150405.000") + ":"})
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c)
}
