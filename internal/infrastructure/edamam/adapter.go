package edamam

import (
	"context"
	"errors"
	"fmt"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/snapdiet/backend/internal/nutrients"
	"go.uber.org/zap"
)

// Edamam nutrient codes; parser values are per 100g
const (
	codeEnergy  = "ENERC_KCAL"
	codeProtein = "PROCNT"
	codeCarbs   = "CHOCDF"
	codeFat     = "FAT"
	codeFiber   = "FIBTG"
	codeSugar   = "SUGAR"
	codeSodium  = "NA" // mg
)

type foodParser interface {
	ParseFoods(ctx context.Context, query string) ([]Food, error)
}

// Adapter exposes the Edamam food database as a name-search source
type Adapter struct {
	client foodParser
	logger *zap.Logger
}

// NewAdapter wraps an Edamam client
func NewAdapter(client foodParser, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

// Name identifies the adapter in logs and cache keys
func (a *Adapter) Name() string {
	return "edamam"
}

// SearchByName returns normalized candidates for a food name
func (a *Adapter) SearchByName(ctx context.Context, text string) ([]domain.NutritionRecord, error) {
	foods, err := a.client.ParseFoods(ctx, text)
	if err != nil {
		if errors.Is(err, ErrNoHints) {
			return nil, domain.ErrNoMatch
		}
		return nil, fmt.Errorf("%w: edamam: %v", domain.ErrSourceUnavailable, err)
	}

	records := make([]domain.NutritionRecord, 0, len(foods))
	for _, f := range foods {
		rec, err := nutrients.Normalize(ToRawNutrients(f), domain.SourceRecognitionDatabase)
		if err != nil {
			a.logger.Debug("dropping Edamam food", zap.String("foodId", f.FoodID), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, domain.ErrNoMatch
	}
	return records, nil
}

// ToRawNutrients converts an Edamam food into a raw nutrient reading
func ToRawNutrients(f Food) domain.RawNutrients {
	raw := domain.RawNutrients{
		Identifier:   f.FoodID,
		DisplayName:  f.Label,
		Basis:        domain.BasisPer100Grams,
		EnergyKcal:   lookup(f.Nutrients, codeEnergy),
		ProteinGrams: lookup(f.Nutrients, codeProtein),
		CarbsGrams:   lookup(f.Nutrients, codeCarbs),
		FatGrams:     lookup(f.Nutrients, codeFat),
		FiberGrams:   lookup(f.Nutrients, codeFiber),
		SugarGrams:   lookup(f.Nutrients, codeSugar),
	}
	if v := lookup(f.Nutrients, codeSodium); v != nil {
		raw.Sodium = v
		raw.SodiumUnit = domain.UnitMilligrams
	}
	return raw
}

func lookup(m map[string]float64, code string) *float64 {
	v, ok := m[code]
	if !ok {
		return nil
	}
	return &v
}
