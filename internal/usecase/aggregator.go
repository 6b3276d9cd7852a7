package usecase

import "github.com/snapdiet/backend/internal/domain"

// Aggregate sums every ingredient as one 100g portion and redacts the fields
// the tier may not see. Redacted fields are nil, never zero.
//
// Optional nutrients an ingredient did not report count as zero, and the
// field is listed in IncompleteFields when visible.
func Aggregate(ingredients []domain.ResolvedIngredient, tier domain.PlanTier) domain.MealTotals {
	var calories, protein, carbs, fat, fiber, sugar, sodium float64
	var missingFiber, missingSugar, missingSodium bool

	for _, ing := range ingredients {
		r := ing.Record
		calories += r.Calories
		protein += r.ProteinGrams
		carbs += r.CarbsGrams
		fat += r.FatGrams
		missingFiber = addOptional(&fiber, r.FiberGrams) || missingFiber
		missingSugar = addOptional(&sugar, r.SugarGrams) || missingSugar
		missingSodium = addOptional(&sodium, r.SodiumMilligrams) || missingSodium
	}

	visible := PermittedFields(tier)
	var totals domain.MealTotals
	totals.Calories = gate(visible, domain.FieldCalories, calories)
	totals.ProteinGrams = gate(visible, domain.FieldProtein, protein)
	totals.CarbsGrams = gate(visible, domain.FieldCarbs, carbs)
	totals.FatGrams = gate(visible, domain.FieldFat, fat)
	totals.FiberGrams = gate(visible, domain.FieldFiber, fiber)
	totals.SugarGrams = gate(visible, domain.FieldSugar, sugar)
	totals.SodiumMilligrams = gate(visible, domain.FieldSodium, sodium)

	for _, opt := range []struct {
		field   domain.Field
		missing bool
	}{
		{domain.FieldFiber, missingFiber},
		{domain.FieldSugar, missingSugar},
		{domain.FieldSodium, missingSodium},
	} {
		if opt.missing && visible[opt.field] {
			totals.IncompleteFields = append(totals.IncompleteFields, opt.field)
		}
	}

	return totals
}

// addOptional adds v to sum and reports whether v was missing
func addOptional(sum *float64, v *float64) bool {
	if v == nil {
		return true
	}
	*sum += *v
	return false
}

func gate(visible map[domain.Field]bool, field domain.Field, v float64) *float64 {
	if !visible[field] {
		return nil
	}
	return &v
}
