package usda

import (
	"context"
	"errors"
	"fmt"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/snapdiet/backend/internal/nutrients"
	"go.uber.org/zap"
)

// searcher is the part of Client the adapter needs
type searcher interface {
	SearchFoods(ctx context.Context, query string) (*SearchResponse, error)
}

// Adapter exposes FoodData Central as a name-search nutrition source
type Adapter struct {
	client searcher
	logger *zap.Logger
}

// NewAdapter wraps a USDA client
func NewAdapter(client searcher, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

// Name identifies the adapter in logs and cache keys
func (a *Adapter) Name() string {
	return "usda"
}

// SearchByName returns normalized candidates for a food name.
// Foods that cannot be normalized are dropped.
func (a *Adapter) SearchByName(ctx context.Context, text string) ([]domain.NutritionRecord, error) {
	resp, err := a.client.SearchFoods(ctx, text)
	if err != nil {
		if errors.Is(err, ErrNoFoods) {
			return nil, domain.ErrNoMatch
		}
		return nil, fmt.Errorf("%w: usda: %v", domain.ErrSourceUnavailable, err)
	}

	records := make([]domain.NutritionRecord, 0, len(resp.Foods))
	for _, food := range resp.Foods {
		rec, err := nutrients.Normalize(ToRawNutrients(food), domain.SourceRecognitionDatabase)
		if err != nil {
			a.logger.Debug("dropping USDA food",
				zap.Int("fdcId", food.FdcID),
				zap.String("description", food.Description),
				zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, domain.ErrNoMatch
	}
	return records, nil
}
