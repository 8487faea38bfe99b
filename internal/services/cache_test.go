package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	c := NewCacheService(kv)

	var got PlaceDetails
	ok, err := c.Get(ctx, "place:x", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetWithTTL(ctx, "place:x", PlaceDetails{Name: "Cafe Berlin"}, time.Minute))
	assert.Equal(t, MinCacheTTL, kv.ttl[CacheKeyPrefix+"place:x"])

	ok, err = c.Get(ctx, "place:x", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cafe Berlin", got.Name)

	require.NoError(t, c.SetWithTTL(ctx, "place:y", 1, 48*time.Hour))
	assert.Equal(t, MaxCacheTTL, kv.ttl[CacheKeyPrefix+"place:y"])

	require.NoError(t, c.Delete(ctx, "place:x"))
	ok, err = c.Get(ctx, "place:x", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
