package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr())
	t.Cleanup(r.Close)
	return r, mr
}

func TestRedis_SetAndGet(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, r.Set(ctx, "key1", payload{Name: "tractor", Count: 3}, time.Minute))

	var got payload
	found, err := r.Get(ctx, "key1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "tractor", Count: 3}, got)
}

func TestRedis_GetMissingKey(t *testing.T) {
	r, _ := newTestRedis(t)

	var got string
	found, err := r.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Delete(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "key1", "value", time.Minute))
	require.NoError(t, r.Delete(ctx, "key1"))

	var got string
	found, err := r.Get(ctx, "key1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_TTLExpiry(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "key1", "value", time.Second))

	mr.FastForward(2 * time.Second)

	var got string
	found, err := r.Get(ctx, "key1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "user:abc", UserCacheKey("abc"))
	assert.Equal(t, "equipment:def", EquipmentCacheKey("def"))
}
