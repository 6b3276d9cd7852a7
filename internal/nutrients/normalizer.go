// Package nutrients converts source-specific nutrient readings into
// canonical per-100g NutritionRecords.
package nutrients

import (
	"fmt"
	"math"

	"github.com/snapdiet/backend/internal/domain"
)

// KJPerKcal is the thermochemical calorie conversion factor
const KJPerKcal = 4.184

// Normalize converts a raw reading into a per-100g record tagged with kind.
// Values are rounded here and nowhere else: calories and sodium to whole
// numbers, gram macros to one decimal.
func Normalize(raw domain.RawNutrients, kind domain.SourceKind) (domain.NutritionRecord, error) {
	scale, err := basisScale(raw)
	if err != nil {
		return domain.NutritionRecord{}, err
	}

	calories, err := energyKcal(raw)
	if err != nil {
		return domain.NutritionRecord{}, err
	}

	rec := domain.NutritionRecord{
		Identifier:  raw.Identifier,
		DisplayName: raw.DisplayName,
		SourceKind:  kind,
		Basis:       domain.BasisPer100g,
	}
	if rec.DisplayName == "" {
		rec.DisplayName = raw.Identifier
	}

	rec.Calories = roundWhole(calories * scale)

	macros := []struct {
		name string
		in   *float64
		out  *float64
	}{
		{"protein", raw.ProteinGrams, &rec.ProteinGrams},
		{"carbohydrate", raw.CarbsGrams, &rec.CarbsGrams},
		{"fat", raw.FatGrams, &rec.FatGrams},
	}
	for _, m := range macros {
		if m.in == nil {
			continue
		}
		if err := checkValue(m.name, *m.in); err != nil {
			return domain.NutritionRecord{}, err
		}
		*m.out = roundTenth(*m.in * scale)
	}

	if rec.FiberGrams, err = optionalGrams("fiber", raw.FiberGrams, scale); err != nil {
		return domain.NutritionRecord{}, err
	}
	if rec.SugarGrams, err = optionalGrams("sugar", raw.SugarGrams, scale); err != nil {
		return domain.NutritionRecord{}, err
	}
	if rec.SodiumMilligrams, err = sodiumMilligrams(raw.Sodium, raw.SodiumUnit, scale); err != nil {
		return domain.NutritionRecord{}, err
	}

	return rec, nil
}

// basisScale returns the factor that brings the reading to a 100g basis
func basisScale(raw domain.RawNutrients) (float64, error) {
	switch raw.Basis {
	case domain.BasisPer100Grams:
		return 1, nil
	case domain.BasisPerServing:
		if raw.ServingGrams == nil || !isFinite(*raw.ServingGrams) || *raw.ServingGrams <= 0 {
			return 0, fmt.Errorf("%w: per-serving values without a serving size in grams", domain.ErrMalformedSourceData)
		}
		return 100 / *raw.ServingGrams, nil
	default:
		return 0, fmt.Errorf("%w: unknown nutrient basis", domain.ErrMalformedSourceData)
	}
}

// energyKcal prefers a declared kcal value and otherwise converts kJ
func energyKcal(raw domain.RawNutrients) (float64, error) {
	if raw.EnergyKcal != nil {
		if err := checkValue("energy", *raw.EnergyKcal); err != nil {
			return 0, err
		}
		return *raw.EnergyKcal, nil
	}
	if raw.EnergyKJ != nil {
		if err := checkValue("energy", *raw.EnergyKJ); err != nil {
			return 0, err
		}
		return *raw.EnergyKJ / KJPerKcal, nil
	}
	return 0, fmt.Errorf("%w: no energy value for %q", domain.ErrMalformedSourceData, raw.DisplayName)
}

func optionalGrams(name string, v *float64, scale float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if err := checkValue(name, *v); err != nil {
		return nil, err
	}
	return domain.Float(roundTenth(*v * scale)), nil
}

// sodiumMilligrams converts using the declared unit only; magnitude is never
// used to guess the unit.
func sodiumMilligrams(v *float64, unit domain.MassUnit, scale float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if err := checkValue("sodium", *v); err != nil {
		return nil, err
	}

	var mg float64
	switch unit {
	case domain.UnitGrams:
		mg = *v * 1000
	case domain.UnitMilligrams:
		mg = *v
	case domain.UnitMicrograms:
		mg = *v / 1000
	default:
		return nil, fmt.Errorf("%w: sodium without a declared unit", domain.ErrMalformedSourceData)
	}
	return domain.Float(roundWhole(mg * scale)), nil
}

func checkValue(name string, v float64) error {
	if !isFinite(v) || v < 0 {
		return fmt.Errorf("%w: invalid %s value %v", domain.ErrMalformedSourceData, name, v)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundWhole(v float64) float64 {
	return math.Round(v)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
