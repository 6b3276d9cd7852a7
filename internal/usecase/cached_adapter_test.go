package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedSearchAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("caches successful results", func(t *testing.T) {
		cache := NewMockCacheRepository()
		inner := &fakeAdapter{name: "usda", results: map[string][]domain.NutritionRecord{
			"pizza": {candidate("Pizza", domain.SourceRecognitionDatabase)},
		}}
		adapter := NewCachedSearchAdapter(inner, cache, time.Hour, nil)

		first, err := adapter.SearchByName(ctx, "pizza")
		require.NoError(t, err)
		second, err := adapter.SearchByName(ctx, "pizza")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.callCount())
		assert.True(t, cache.setCalled)
		_, ok := cache.data["candidates:usda:pizza"]
		assert.True(t, ok)
	})

	t.Run("normalizes cache key", func(t *testing.T) {
		cache := NewMockCacheRepository()
		inner := &fakeAdapter{name: "usda", results: map[string][]domain.NutritionRecord{
			"Mac & Cheese!": {candidate("Mac and cheese", domain.SourceRecognitionDatabase)},
		}}
		adapter := NewCachedSearchAdapter(inner, cache, time.Hour, nil)

		_, err := adapter.SearchByName(ctx, "Mac & Cheese!")
		require.NoError(t, err)

		_, ok := cache.data["candidates:usda:mac cheese"]
		assert.True(t, ok)
	})

	t.Run("does not cache errors", func(t *testing.T) {
		cache := NewMockCacheRepository()
		inner := &fakeAdapter{name: "usda", err: domain.ErrSourceUnavailable}
		adapter := NewCachedSearchAdapter(inner, cache, time.Hour, nil)

		_, err := adapter.SearchByName(ctx, "pizza")

		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
		assert.False(t, cache.setCalled)
	})

	t.Run("cache write failure does not fail lookup", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.setError = errors.New("cache down")
		inner := &fakeAdapter{name: "usda", results: map[string][]domain.NutritionRecord{
			"pizza": {candidate("Pizza", domain.SourceRecognitionDatabase)},
		}}
		adapter := NewCachedSearchAdapter(inner, cache, time.Hour, nil)

		records, err := adapter.SearchByName(ctx, "pizza")

		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("uses default TTL", func(t *testing.T) {
		adapter := NewCachedSearchAdapter(&fakeAdapter{name: "x"}, NewMockCacheRepository(), 0, nil)
		assert.Equal(t, 720*time.Hour, adapter.ttl)
		assert.Equal(t, "x", adapter.Name())
	})
}
