package usecase

import "github.com/snapdiet/backend/internal/domain"

var macroFields = []domain.Field{
	domain.FieldCalories,
	domain.FieldProtein,
	domain.FieldCarbs,
	domain.FieldFat,
	domain.FieldFiber,
	domain.FieldSugar,
	domain.FieldSodium,
}

var planFields = map[domain.PlanTier][]domain.Field{
	domain.PlanFree: {domain.FieldCalories},
	domain.PlanPro:  macroFields,
	domain.PlanFitness: append(append([]domain.Field{}, macroFields...),
		domain.FieldEditableIngredients,
		domain.FieldCoaching,
	),
}

var planQuotas = map[domain.PlanTier]int{
	domain.PlanFree:    5,
	domain.PlanPro:     50,
	domain.PlanFitness: 200,
}

// PermittedFields returns the set of fields a tier may see.
// Unknown tiers get the free set.
func PermittedFields(tier domain.PlanTier) map[domain.Field]bool {
	fields, ok := planFields[tier]
	if !ok {
		fields = planFields[domain.PlanFree]
	}
	set := make(map[domain.Field]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// GateIngredients returns the client view of ingredients with every nutrient
// the tier may not see left nil
func GateIngredients(ingredients []domain.ResolvedIngredient, tier domain.PlanTier) []domain.IngredientView {
	visible := PermittedFields(tier)
	views := make([]domain.IngredientView, len(ingredients))
	for i, ing := range ingredients {
		r := ing.Record
		views[i] = domain.IngredientView{
			Label:       ing.Label,
			MatchSource: ing.MatchSource,
			Record: domain.RecordView{
				Identifier:       r.Identifier,
				DisplayName:      r.DisplayName,
				Calories:         gate(visible, domain.FieldCalories, r.Calories),
				ProteinGrams:     gate(visible, domain.FieldProtein, r.ProteinGrams),
				CarbsGrams:       gate(visible, domain.FieldCarbs, r.CarbsGrams),
				FatGrams:         gate(visible, domain.FieldFat, r.FatGrams),
				FiberGrams:       gateOptional(visible, domain.FieldFiber, r.FiberGrams),
				SugarGrams:       gateOptional(visible, domain.FieldSugar, r.SugarGrams),
				SodiumMilligrams: gateOptional(visible, domain.FieldSodium, r.SodiumMilligrams),
				SourceKind:       r.SourceKind,
				Basis:            r.Basis,
			},
		}
	}
	return views
}

func gateOptional(visible map[domain.Field]bool, field domain.Field, v *float64) *float64 {
	if v == nil {
		return nil
	}
	return gate(visible, field, *v)
}

// DailyScanQuota returns how many scans a tier may run per day
func DailyScanQuota(tier domain.PlanTier) int {
	if q, ok := planQuotas[tier]; ok {
		return q
	}
	return planQuotas[domain.PlanFree]
}

// PlanSummary describes a tier's entitlements
type PlanSummary struct {
	Tier           domain.PlanTier `json:"plan"`
	DailyScanQuota int             `json:"dailyScanQuota"`
	Fields         []domain.Field  `json:"fields"`
}

// DescribePlan lists a tier's fields in a stable order
func DescribePlan(tier domain.PlanTier) PlanSummary {
	fields := planFields[tier]
	if fields == nil {
		tier = domain.PlanFree
		fields = planFields[tier]
	}
	return PlanSummary{
		Tier:           tier,
		DailyScanQuota: DailyScanQuota(tier),
		Fields:         append([]domain.Field{}, fields...),
	}
}
