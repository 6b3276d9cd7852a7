package usda

import (
	"strconv"
	"strings"

	"github.com/snapdiet/backend/internal/domain"
)

// USDA Nutrient IDs
const (
	NutrientIDEnergy       = 1008 // Energy (kcal)
	NutrientIDEnergyKJ     = 1062 // Energy (kJ)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrate, by difference (g)
	NutrientIDTotalFat     = 1004 // Total lipid (fat) (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
	NutrientIDSugars       = 2000 // Sugars, total (g)
	NutrientIDSodium       = 1093 // Sodium, Na (mg)
)

// ToRawNutrients converts a USDA search hit into a raw nutrient reading.
// Search results report foodNutrients per 100g for every data type.
func ToRawNutrients(food Food) domain.RawNutrients {
	raw := domain.RawNutrients{
		Identifier:  strconv.Itoa(food.FdcID),
		DisplayName: food.Description,
		Basis:       domain.BasisPer100Grams,
	}

	for _, n := range food.Nutrients {
		v := n.Value
		switch n.NutrientID {
		case NutrientIDEnergy:
			// 1008 is kcal by definition, but trust a declared kJ unit
			if unit := strings.ToLower(n.UnitName); unit == "kj" {
				raw.EnergyKJ = &v
			} else {
				raw.EnergyKcal = &v
			}
		case NutrientIDEnergyKJ:
			raw.EnergyKJ = &v
		case NutrientIDProtein:
			raw.ProteinGrams = &v
		case NutrientIDCarbohydrate:
			raw.CarbsGrams = &v
		case NutrientIDTotalFat:
			raw.FatGrams = &v
		case NutrientIDFiber:
			raw.FiberGrams = &v
		case NutrientIDSugars:
			raw.SugarGrams = &v
		case NutrientIDSodium:
			raw.Sodium = &v
			raw.SodiumUnit = massUnit(n.UnitName)
		}
	}

	return raw
}

// massUnit maps USDA unit names to declared mass units
func massUnit(unitName string) domain.MassUnit {
	switch strings.ToLower(strings.TrimSpace(unitName)) {
	case "g":
		return domain.UnitGrams
	case "mg":
		return domain.UnitMilligrams
	case "ug", "µg":
		return domain.UnitMicrograms
	default:
		return domain.UnitUnspecified
	}
}
