package usda

import (
	"context"
	"errors"
	"testing"

	"github.com/snapdiet/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	resp *SearchResponse
	err  error
}

func (f *fakeSearcher) SearchFoods(ctx context.Context, query string) (*SearchResponse, error) {
	return f.resp, f.err
}

func TestAdapter_SearchByName(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes foods and drops malformed ones", func(t *testing.T) {
		adapter := NewAdapter(&fakeSearcher{resp: &SearchResponse{Foods: []Food{
			{FdcID: 1, Description: "Pizza, cheese", Nutrients: []Nutrient{
				{NutrientID: NutrientIDEnergy, Value: 266, UnitName: "KCAL"},
				{NutrientID: NutrientIDProtein, Value: 11.4, UnitName: "G"},
			}},
			{FdcID: 2, Description: "Pizza, no energy", Nutrients: []Nutrient{
				{NutrientID: NutrientIDProtein, Value: 10, UnitName: "G"},
			}},
		}}}, nil)

		records, err := adapter.SearchByName(ctx, "pizza")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "1", records[0].Identifier)
		assert.Equal(t, domain.SourceRecognitionDatabase, records[0].SourceKind)
		assert.Equal(t, domain.BasisPer100g, records[0].Basis)
		assert.Equal(t, 266.0, records[0].Calories)
	})

	t.Run("no foods is a recoverable no-match", func(t *testing.T) {
		adapter := NewAdapter(&fakeSearcher{err: ErrNoFoods}, nil)

		_, err := adapter.SearchByName(ctx, "zzz")

		assert.ErrorIs(t, err, domain.ErrNoMatch)
	})

	t.Run("all foods malformed is a no-match", func(t *testing.T) {
		adapter := NewAdapter(&fakeSearcher{resp: &SearchResponse{Foods: []Food{{FdcID: 3, Description: "Water"}}}}, nil)

		_, err := adapter.SearchByName(ctx, "water")

		assert.ErrorIs(t, err, domain.ErrNoMatch)
	})

	t.Run("transport failure is source unavailable", func(t *testing.T) {
		adapter := NewAdapter(&fakeSearcher{err: errors.New("connection refused")}, nil)

		_, err := adapter.SearchByName(ctx, "pizza")

		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("name", func(t *testing.T) {
		assert.Equal(t, "usda", NewAdapter(&fakeSearcher{}, nil).Name())
	})
}
