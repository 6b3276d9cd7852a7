package usecase

import (
	"context"
	"fmt"

	"github.com/snapdiet/backend/internal/domain"
	"go.uber.org/zap"
)

// ScanSummary is the response payload for every scan type
type ScanSummary struct {
	Plan           domain.PlanTier         `json:"plan"`
	DailyScanQuota int                     `json:"dailyScanQuota"`
	Ingredients    []domain.IngredientView `json:"ingredients"`
	Totals         domain.MealTotals       `json:"totals"`
}

// NutritionService runs a scan end to end: recognition, reconciliation,
// aggregation and plan gating.
type NutritionService struct {
	engine     *ReconciliationEngine
	recognizer domain.Recognizer
	logger     *zap.Logger
}

// NewNutritionService creates the scan service. recognizer may be nil when
// image recognition is not configured.
func NewNutritionService(engine *ReconciliationEngine, recognizer domain.Recognizer, logger *zap.Logger) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NutritionService{
		engine:     engine,
		recognizer: recognizer,
		logger:     logger,
	}
}

// ScanLabels resolves labels detected by a client-side recognizer
func (s *NutritionService) ScanLabels(ctx context.Context, labels []domain.DetectedLabel, tier domain.PlanTier) (*ScanSummary, error) {
	ingredients, err := s.engine.Resolve(ctx, labels)
	if err != nil {
		return nil, err
	}
	return s.summarize(ingredients, tier), nil
}

// ScanImage runs the configured recognizer on an image and resolves its labels
func (s *NutritionService) ScanImage(ctx context.Context, image []byte, tier domain.PlanTier) (*ScanSummary, error) {
	if s.recognizer == nil {
		return nil, domain.ErrRecognizerUnavailable
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	labels, err := s.recognizer.Recognize(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, domain.ErrNoDetection
	}

	s.logger.Info("image recognized", zap.Int("labels", len(labels)), zap.Int("bytes", len(image)))
	return s.ScanLabels(ctx, labels, tier)
}

// ScanBarcode resolves a single packaged product
func (s *NutritionService) ScanBarcode(ctx context.Context, code string, tier domain.PlanTier) (*ScanSummary, error) {
	ingredient, err := s.engine.ResolveBarcode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.summarize([]domain.ResolvedIngredient{ingredient}, tier), nil
}

func (s *NutritionService) summarize(ingredients []domain.ResolvedIngredient, tier domain.PlanTier) *ScanSummary {
	fallbacks := 0
	for _, ing := range ingredients {
		if ing.MatchSource == domain.SourceLocalFallback {
			fallbacks++
		}
	}
	s.logger.Info("scan resolved",
		zap.String("plan", string(tier)),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("fallbacks", fallbacks))

	return &ScanSummary{
		Plan:           tier,
		DailyScanQuota: DailyScanQuota(tier),
		Ingredients:    GateIngredients(ingredients, tier),
		Totals:         Aggregate(ingredients, tier),
	}
}
