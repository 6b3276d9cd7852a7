package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/snapdiet/backend/internal/domain"
	"go.uber.org/zap"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// CachedSearchAdapter caches successful candidate lists of a name-search
// adapter. Errors and empty results are never cached, and cache failures
// never fail a lookup.
type CachedSearchAdapter struct {
	next   domain.NameSearchAdapter
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSearchAdapter wraps next. A zero ttl defaults to 30 days.
func NewCachedSearchAdapter(next domain.NameSearchAdapter, cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedSearchAdapter {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearchAdapter{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Name returns the wrapped adapter's name
func (a *CachedSearchAdapter) Name() string {
	return a.next.Name()
}

// SearchByName serves from cache when possible
func (a *CachedSearchAdapter) SearchByName(ctx context.Context, text string) ([]domain.NutritionRecord, error) {
	key := a.cacheKey(text)

	var cached []domain.NutritionRecord
	if err := a.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	records, err := a.next.SearchByName(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 {
		if err := a.cache.Set(ctx, key, records, a.ttl); err != nil {
			a.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return records, nil
}

// cacheKey has the form "candidates:{adapter}:{normalized query}"
func (a *CachedSearchAdapter) cacheKey(text string) string {
	return fmt.Sprintf("candidates:%s:%s", a.next.Name(), normalizeForCacheKey(text))
}

// normalizeForCacheKey lower-cases, removes special characters and
// collapses whitespace
func normalizeForCacheKey(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	return strings.Join(strings.Fields(result), " ")
}
