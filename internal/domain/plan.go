package domain

import (
	"fmt"
	"strings"
)

// PlanTier is a subscription level
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanPro     PlanTier = "pro"
	PlanFitness PlanTier = "fitness"
)

// Field names a piece of output a plan may or may not expose
type Field string

const (
	FieldCalories            Field = "calories"
	FieldProtein             Field = "proteinGrams"
	FieldCarbs               Field = "carbsGrams"
	FieldFat                 Field = "fatGrams"
	FieldFiber               Field = "fiberGrams"
	FieldSugar               Field = "sugarGrams"
	FieldSodium              Field = "sodiumMilligrams"
	FieldEditableIngredients Field = "editableIngredients"
	FieldCoaching            Field = "coaching"
)

// ParsePlanTier parses a tier name. An empty name means the free tier.
func ParsePlanTier(s string) (PlanTier, error) {
	switch PlanTier(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlanFree:
		return PlanFree, nil
	case PlanPro:
		return PlanPro, nil
	case PlanFitness:
		return PlanFitness, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
}
