package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snapdiet/backend/internal/domain"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(time.Hour)
	t.Cleanup(c.Close)
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	t.Run("store and retrieve string", func(t *testing.T) {
		if err := cache.Set(ctx, "k1", "hello", time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		var got string
		if err := cache.Get(ctx, "k1", &got); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "hello" {
			t.Errorf("Get() = %q, want hello", got)
		}
	})

	t.Run("store and retrieve records", func(t *testing.T) {
		records := []domain.NutritionRecord{
			{Identifier: "1", DisplayName: "Apple", Calories: 52, FiberGrams: domain.Float(2.4), SourceKind: domain.SourceRecognitionDatabase, Basis: domain.BasisPer100g},
			{Identifier: "2", DisplayName: "Pear", Calories: 57, SourceKind: domain.SourceRecognitionDatabase, Basis: domain.BasisPer100g},
		}
		if err := cache.Set(ctx, "k2", records, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		var got []domain.NutritionRecord
		if err := cache.Get(ctx, "k2", &got); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].FiberGrams == nil || *got[0].FiberGrams != 2.4 {
			t.Errorf("FiberGrams = %v, want 2.4", got[0].FiberGrams)
		}
		if got[1].FiberGrams != nil {
			t.Errorf("FiberGrams = %v, want nil (unknown must survive caching)", *got[1].FiberGrams)
		}
	})

	t.Run("returned values do not alias stored state", func(t *testing.T) {
		in := []string{"a", "b"}
		_ = cache.Set(ctx, "k3", in, time.Minute)
		in[0] = "changed"

		var got []string
		_ = cache.Get(ctx, "k3", &got)
		if got[0] != "a" {
			t.Errorf("got[0] = %q, want a", got[0])
		}
	})
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	now := time.Now()
	cache.now = func() time.Time { return now }

	_ = cache.Set(ctx, "short", "value", time.Second)

	exists, _ := cache.Exists(ctx, "short")
	if !exists {
		t.Fatal("Exists() = false before expiry, want true")
	}

	now = now.Add(2 * time.Second)

	var got string
	if err := cache.Get(ctx, "short", &got); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
	exists, _ = cache.Exists(ctx, "short")
	if exists {
		t.Error("Exists() = true after expiry, want false")
	}

	cache.sweep()
	if cache.Size() != 0 {
		t.Errorf("Size() = %d after sweep, want 0", cache.Size())
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "gone", 1, time.Minute)
	if err := cache.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var got int
	if err := cache.Get(ctx, "gone", &got); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_GetMissingKey(t *testing.T) {
	cache := newTestCache(t)

	var got string
	err := cache.Get(context.Background(), "nope", &got)
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	c.Close()
	c.Close()
}
