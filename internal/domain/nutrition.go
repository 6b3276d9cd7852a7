package domain

// BasisPer100g is the only basis a NutritionRecord may carry once normalized
const BasisPer100g = "per 100g"

// SourceKind identifies where a nutrition record came from
type SourceKind string

const (
	SourceRecognitionDatabase SourceKind = "RecognitionDatabase"
	SourceBarcodeDatabase     SourceKind = "BarcodeDatabase"
	SourceLocalFallback       SourceKind = "LocalFallback"
)

// Priority ranks source kinds for candidate selection. Higher wins.
// Barcode data describes an exact product, so it outranks name guesses.
func (k SourceKind) Priority() int {
	switch k {
	case SourceBarcodeDatabase:
		return 3
	case SourceRecognitionDatabase:
		return 2
	case SourceLocalFallback:
		return 1
	default:
		return 0
	}
}

// NutritionRecord is a nutrient snapshot for one food, always per 100 grams.
// Optional fields are nil when the source did not report them.
type NutritionRecord struct {
	Identifier       string     `json:"identifier"`
	DisplayName      string     `json:"displayName"`
	Calories         float64    `json:"calories"`
	ProteinGrams     float64    `json:"proteinGrams"`
	CarbsGrams       float64    `json:"carbsGrams"`
	FatGrams         float64    `json:"fatGrams"`
	FiberGrams       *float64   `json:"fiberGrams,omitempty"`
	SugarGrams       *float64   `json:"sugarGrams,omitempty"`
	SodiumMilligrams *float64   `json:"sodiumMilligrams,omitempty"`
	SourceKind       SourceKind `json:"sourceKind"`
	Basis            string     `json:"basis"`
}

// DetectedLabel is one food name produced by image recognition
type DetectedLabel struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-1
}

// ResolvedIngredient joins a detected label with the record chosen for it
type ResolvedIngredient struct {
	Label       DetectedLabel   `json:"label"`
	Record      NutritionRecord `json:"record"`
	MatchSource SourceKind      `json:"matchSource"`
}

// RecordView is a NutritionRecord as a plan may see it. A nil nutrient is
// either not reported by the source or not visible to the plan.
type RecordView struct {
	Identifier       string     `json:"identifier"`
	DisplayName      string     `json:"displayName"`
	Calories         *float64   `json:"calories,omitempty"`
	ProteinGrams     *float64   `json:"proteinGrams,omitempty"`
	CarbsGrams       *float64   `json:"carbsGrams,omitempty"`
	FatGrams         *float64   `json:"fatGrams,omitempty"`
	FiberGrams       *float64   `json:"fiberGrams,omitempty"`
	SugarGrams       *float64   `json:"sugarGrams,omitempty"`
	SodiumMilligrams *float64   `json:"sodiumMilligrams,omitempty"`
	SourceKind       SourceKind `json:"sourceKind"`
	Basis            string     `json:"basis"`
}

// IngredientView is a ResolvedIngredient as returned to a client
type IngredientView struct {
	Label       DetectedLabel `json:"label"`
	Record      RecordView    `json:"record"`
	MatchSource SourceKind    `json:"matchSource"`
}

// MealTotals sums nutrients across resolved ingredients.
// A nil field is one the caller's plan is not entitled to see.
type MealTotals struct {
	Calories         *float64 `json:"calories,omitempty"`
	ProteinGrams     *float64 `json:"proteinGrams,omitempty"`
	CarbsGrams       *float64 `json:"carbsGrams,omitempty"`
	FatGrams         *float64 `json:"fatGrams,omitempty"`
	FiberGrams       *float64 `json:"fiberGrams,omitempty"`
	SugarGrams       *float64 `json:"sugarGrams,omitempty"`
	SodiumMilligrams *float64 `json:"sodiumMilligrams,omitempty"`

	// IncompleteFields lists visible optional fields where at least one
	// ingredient had no data and was counted as zero.
	IncompleteFields []Field `json:"incompleteFields,omitempty"`
}

// NutrientBasis is the quantity a source reports its nutrients against
type NutrientBasis int

const (
	BasisUnknown NutrientBasis = iota
	BasisPer100Grams
	BasisPerServing
)

// MassUnit is the declared unit of a mass-valued nutrient
type MassUnit string

const (
	UnitGrams       MassUnit = "g"
	UnitMilligrams  MassUnit = "mg"
	UnitMicrograms  MassUnit = "ug"
	UnitUnspecified MassUnit = ""
)

// RawNutrients is a source-specific nutrient reading before normalization.
// Every value is a pointer so that "not reported" stays distinguishable.
type RawNutrients struct {
	Identifier   string
	DisplayName  string
	Basis        NutrientBasis
	ServingGrams *float64

	EnergyKcal   *float64
	EnergyKJ     *float64
	ProteinGrams *float64
	CarbsGrams   *float64
	FatGrams     *float64
	FiberGrams   *float64
	SugarGrams   *float64

	Sodium     *float64
	SodiumUnit MassUnit
}

// Float returns a pointer to v, for building optional nutrient values
func Float(v float64) *float64 {
	return &v
}
