package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavedService_Toggle(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewSavedService(kv)

	saved, err := s.Toggle(ctx, "tok", "marie-post-1")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, `["marie-post-1"]`, kv.data[SavedKey+":tok"])

	saved, err = s.Toggle(ctx, "tok", "alex-post-1")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.Toggle(ctx, "tok", "marie-post-1")
	require.NoError(t, err)
	assert.False(t, saved)

	ids, err := s.IDs(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"alex-post-1"}, ids)
}

func TestSavedService_DoubleToggleRestores(t *testing.T) {
	ctx := context.Background()
	s := NewSavedService(newMemKV())

	for _, id := range []string{"a", "b"} {
		_, err := s.Toggle(ctx, "tok", id)
		require.NoError(t, err)
	}
	before, err := s.Set(ctx, "tok")
	require.NoError(t, err)

	for _, id := range []string{"b", "c"} {
		first, err := s.Toggle(ctx, "tok", id)
		require.NoError(t, err)
		second, err := s.Toggle(ctx, "tok", id)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	}

	after, err := s.Set(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSavedService_ScopedToSession(t *testing.T) {
	ctx := context.Background()
	s := NewSavedService(newMemKV())

	_, err := s.Toggle(ctx, "tok-a", "p1")
	require.NoError(t, err)

	ids, err := s.IDs(ctx, "tok-b")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSavedService_UnreadableValue(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.data[SavedKey+":tok"] = "{not json"
	s := NewSavedService(kv)

	ids, err := s.IDs(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, ids)

	saved, err := s.Toggle(ctx, "tok", "p1")
	require.NoError(t, err)
	assert.True(t, saved)
}
