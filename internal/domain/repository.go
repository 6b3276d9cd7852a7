package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Get decodes the stored value into dest.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NameSearchAdapter proposes candidate records for a free-text food name.
// Implementations fail only with ErrSourceUnavailable or ErrNoMatch.
type NameSearchAdapter interface {
	Name() string
	SearchByName(ctx context.Context, text string) ([]NutritionRecord, error)
}

// BarcodeAdapter looks up a packaged product by its barcode.
// Implementations fail only with ErrSourceUnavailable or ErrNoMatch.
type BarcodeAdapter interface {
	LookupByBarcode(ctx context.Context, code string) (*NutritionRecord, error)
}

// Recognizer turns an image into food labels ordered by descending confidence
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) ([]DetectedLabel, error)
}
