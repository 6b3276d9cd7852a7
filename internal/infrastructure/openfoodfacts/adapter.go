package openfoodfacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/snapdiet/backend/internal/nutrients"
	"go.uber.org/zap"
)

type productGetter interface {
	GetProduct(ctx context.Context, code string) (*Product, error)
}

// Adapter exposes Open Food Facts as a barcode nutrition source
type Adapter struct {
	client productGetter
	logger *zap.Logger
}

// NewAdapter wraps an Open Food Facts client
func NewAdapter(client productGetter, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

// LookupByBarcode returns the normalized record for a barcode.
// A product whose nutriments cannot be normalized counts as no match.
func (a *Adapter) LookupByBarcode(ctx context.Context, code string) (*domain.NutritionRecord, error) {
	product, err := a.client.GetProduct(ctx, code)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, domain.ErrNoMatch
		}
		return nil, fmt.Errorf("%w: openfoodfacts: %v", domain.ErrSourceUnavailable, err)
	}

	rec, err := nutrients.Normalize(ToRawNutrients(product), domain.SourceBarcodeDatabase)
	if err != nil {
		a.logger.Info("dropping Open Food Facts product", zap.String("code", code), zap.Error(err))
		return nil, domain.ErrNoMatch
	}
	return &rec, nil
}
