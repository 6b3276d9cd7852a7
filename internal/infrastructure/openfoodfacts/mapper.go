package openfoodfacts

import (
	"math"
	"strconv"
	"strings"

	"github.com/snapdiet/backend/internal/domain"
)

// ToRawNutrients converts an Open Food Facts product into a raw nutrient
// reading. Per-100g nutriments are preferred; when the product carries no
// per-100g energy the per-serving values are used with serving_quantity.
func ToRawNutrients(p *Product) domain.RawNutrients {
	raw := domain.RawNutrients{
		Identifier:  p.Code,
		DisplayName: p.Name(),
	}

	suffix := "_100g"
	raw.Basis = domain.BasisPer100Grams
	if !hasEnergy(p.Nutriments, "_100g") && hasEnergy(p.Nutriments, "_serving") {
		suffix = "_serving"
		raw.Basis = domain.BasisPerServing
		if v, ok := toFloat(p.ServingQuantity); ok {
			raw.ServingGrams = &v
		}
	}

	raw.EnergyKcal = nutriment(p.Nutriments, "energy-kcal"+suffix)
	raw.EnergyKJ = nutriment(p.Nutriments, "energy-kj"+suffix)
	// the generic energy key is in kJ
	if raw.EnergyKcal == nil && raw.EnergyKJ == nil {
		raw.EnergyKJ = nutriment(p.Nutriments, "energy"+suffix)
	}
	raw.ProteinGrams = nutriment(p.Nutriments, "proteins"+suffix)
	raw.CarbsGrams = nutriment(p.Nutriments, "carbohydrates"+suffix)
	raw.FatGrams = nutriment(p.Nutriments, "fat"+suffix)
	raw.FiberGrams = nutriment(p.Nutriments, "fiber"+suffix)
	raw.SugarGrams = nutriment(p.Nutriments, "sugars"+suffix)

	// sodium_100g and sodium_serving are always expressed in grams
	if v := nutriment(p.Nutriments, "sodium"+suffix); v != nil {
		raw.Sodium = v
		raw.SodiumUnit = domain.UnitGrams
	}

	return raw
}

func hasEnergy(m map[string]interface{}, suffix string) bool {
	return nutriment(m, "energy-kcal"+suffix) != nil ||
		nutriment(m, "energy-kj"+suffix) != nil ||
		nutriment(m, "energy"+suffix) != nil
}

func nutriment(m map[string]interface{}, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// toFloat coerces the loosely typed values Open Food Facts returns
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
