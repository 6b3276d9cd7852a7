package edamam

import (
	"context"
	"errors"
	"testing"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	foods []Food
	err   error
}

func (f *fakeParser) ParseFoods(ctx context.Context, query string) ([]Food, error) {
	return f.foods, f.err
}

func TestAdapter_SearchByName(t *testing.T) {
	ctx := context.Background()

	t.Run("maps nutrient codes", func(t *testing.T) {
		adapter := NewAdapter(&fakeParser{foods: []Food{{
			FoodID: "food_1",
			Label:  "Salad",
			Nutrients: map[string]float64{
				"ENERC_KCAL": 17.04, "PROCNT": 1.24, "CHOCDF": 3.29, "FAT": 0.3, "FIBTG": 2.1, "NA": 28.4,
			},
		}}}, nil)

		records, err := adapter.SearchByName(ctx, "salad")

		require.NoError(t, err)
		require.Len(t, records, 1)
		rec := records[0]
		assert.Equal(t, domain.SourceRecognitionDatabase, rec.SourceKind)
		assert.Equal(t, 17.0, rec.Calories)
		assert.Equal(t, 1.2, rec.ProteinGrams)
		assert.Equal(t, 3.3, rec.CarbsGrams)
		assert.Equal(t, 2.1, *rec.FiberGrams)
		assert.Nil(t, rec.SugarGrams)
		assert.Equal(t, 28.0, *rec.SodiumMilligrams)
	})

	t.Run("no hints is no match", func(t *testing.T) {
		adapter := NewAdapter(&fakeParser{err: ErrNoHints}, nil)

		_, err := adapter.SearchByName(ctx, "x")

		assert.ErrorIs(t, err, domain.ErrNoMatch)
	})

	t.Run("failure is source unavailable", func(t *testing.T) {
		adapter := NewAdapter(&fakeParser{err: errors.New("boom")}, nil)

		_, err := adapter.SearchByName(ctx, "x")

		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}
