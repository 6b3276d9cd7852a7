package usda

import (
	"testing"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawNutrients(t *testing.T) {
	t.Run("complete food data", func(t *testing.T) {
		food := Food{
			FdcID:       12345,
			Description: "Milk, whole, 3.25% milkfat",
			Nutrients: []Nutrient{
				{NutrientID: NutrientIDEnergy, Value: 61, UnitName: "KCAL"},
				{NutrientID: NutrientIDProtein, Value: 3.2, UnitName: "G"},
				{NutrientID: NutrientIDCarbohydrate, Value: 4.8, UnitName: "G"},
				{NutrientID: NutrientIDTotalFat, Value: 3.3, UnitName: "G"},
				{NutrientID: NutrientIDFiber, Value: 0, UnitName: "G"},
				{NutrientID: NutrientIDSugars, Value: 5.1, UnitName: "G"},
				{NutrientID: NutrientIDSodium, Value: 43, UnitName: "MG"},
			},
		}

		raw := ToRawNutrients(food)

		assert.Equal(t, "12345", raw.Identifier)
		assert.Equal(t, "Milk, whole, 3.25% milkfat", raw.DisplayName)
		assert.Equal(t, domain.BasisPer100Grams, raw.Basis)
		require.NotNil(t, raw.EnergyKcal)
		assert.Equal(t, 61.0, *raw.EnergyKcal)
		require.NotNil(t, raw.FiberGrams)
		assert.Equal(t, 0.0, *raw.FiberGrams)
		require.NotNil(t, raw.Sodium)
		assert.Equal(t, 43.0, *raw.Sodium)
		assert.Equal(t, domain.UnitMilligrams, raw.SodiumUnit)
	})

	t.Run("missing nutrients stay nil", func(t *testing.T) {
		food := Food{
			FdcID:       67890,
			Description: "Apple",
			Nutrients: []Nutrient{
				{NutrientID: NutrientIDEnergy, Value: 52.0, UnitName: "KCAL"},
			},
		}

		raw := ToRawNutrients(food)

		assert.Nil(t, raw.ProteinGrams)
		assert.Nil(t, raw.SugarGrams)
		assert.Nil(t, raw.Sodium)
	})

	t.Run("energy only in kilojoules", func(t *testing.T) {
		food := Food{
			FdcID:       1,
			Description: "Oats",
			Nutrients:   []Nutrient{{NutrientID: NutrientIDEnergyKJ, Value: 1598, UnitName: "kJ"}},
		}

		raw := ToRawNutrients(food)

		assert.Nil(t, raw.EnergyKcal)
		require.NotNil(t, raw.EnergyKJ)
		assert.Equal(t, 1598.0, *raw.EnergyKJ)
	})
}

func TestMassUnit(t *testing.T) {
	assert.Equal(t, domain.UnitMilligrams, massUnit("MG"))
	assert.Equal(t, domain.UnitGrams, massUnit("g"))
	assert.Equal(t, domain.UnitMicrograms, massUnit("UG"))
	assert.Equal(t, domain.UnitUnspecified, massUnit("IU"))
}
