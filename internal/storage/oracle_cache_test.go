package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleanfeed/sifter/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) *OracleCache {
	t.Helper()
	cache, err := NewOracleCache(filepath.Join(t.TempDir(), "cache.db"), ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestOracleCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	ctx := context.Background()

	want := model.ContextResult{
		CommercialLikelihood: 0.85,
		Reasoning:            "sponsorship thanks in opening",
		KeyIndicators:        []string{"협찬 감사"},
		Confidence:           0.9,
	}
	require.NoError(t, cache.Put(ctx, "key-1", want))

	got, ok, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestOracleCacheMiss(t *testing.T) {
	cache := newTestCache(t, time.Hour)

	_, ok, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOracleCacheExpiry(t *testing.T) {
	cache := newTestCache(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key-1", model.ContextResult{CommercialLikelihood: 0.5}))
	time.Sleep(10 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOracleCacheOverwrite(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key-1", model.ContextResult{CommercialLikelihood: 0.3}))
	require.NoError(t, cache.Put(ctx, "key-1", model.ContextResult{CommercialLikelihood: 0.7}))

	got, ok, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.7, got.CommercialLikelihood)

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOracleCachePrune(t *testing.T) {
	cache := newTestCache(t, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "key-1", model.ContextResult{}))
	require.NoError(t, cache.Put(ctx, "key-2", model.ContextResult{}))
	time.Sleep(10 * time.Millisecond)

	removed, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	n, err := cache.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
