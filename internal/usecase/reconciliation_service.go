package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/snapdiet/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Placeholder values used when no source knows a food. These are a generic
// estimate per 100g, not a lookup result.
const (
	fallbackCalories = 100
	fallbackProtein  = 5
	fallbackCarbs    = 12
	fallbackFat      = 3
)

const (
	defaultMinConfidence       = 0.5
	defaultMaxConcurrentLabels = 4
)

// ReconciliationConfig holds configuration for the reconciliation engine
type ReconciliationConfig struct {
	MinConfidence       float64 // labels below this are dropped; negative means default
	MaxConcurrentLabels int     // zero or negative means default
	EnableDebugLogging  bool
}

// DefaultReconciliationConfig returns the engine defaults. A zero
// MinConfidence keeps every label.
func DefaultReconciliationConfig() ReconciliationConfig {
	return ReconciliationConfig{
		MinConfidence:       defaultMinConfidence,
		MaxConcurrentLabels: defaultMaxConcurrentLabels,
	}
}

// ReconciliationEngine resolves detected labels and barcodes to exactly one
// nutrition record each, falling back to a local estimate when no source
// produces a match.
type ReconciliationEngine struct {
	adapters      []domain.NameSearchAdapter
	barcode       domain.BarcodeAdapter
	matcher       *CandidateMatcher
	preprocessor  *QueryPreprocessor
	minConfidence float64
	maxConcurrent int
	logger        *zap.Logger
}

// NewReconciliationEngine creates an engine over the given sources.
// barcode may be nil, in which case barcode scans always fall back.
func NewReconciliationEngine(
	adapters []domain.NameSearchAdapter,
	barcode domain.BarcodeAdapter,
	config ReconciliationConfig,
	logger *zap.Logger,
) *ReconciliationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}

	minConfidence := config.MinConfidence
	if minConfidence < 0 {
		minConfidence = defaultMinConfidence
	}
	maxConcurrent := config.MaxConcurrentLabels
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentLabels
	}

	return &ReconciliationEngine{
		adapters:      adapters,
		barcode:       barcode,
		matcher:       NewCandidateMatcher(logger, config.EnableDebugLogging),
		preprocessor:  NewQueryPreprocessor(logger, config.EnableDebugLogging),
		minConfidence: minConfidence,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Resolve maps every label that passes the confidence threshold to one
// ResolvedIngredient, in input order. It returns ErrInvalidInput for a
// malformed label list and ErrNoDetection (with an empty slice) when every
// label was filtered out.
func (e *ReconciliationEngine) Resolve(ctx context.Context, labels []domain.DetectedLabel) ([]domain.ResolvedIngredient, error) {
	if err := validateLabels(labels); err != nil {
		return nil, err
	}

	kept := make([]domain.DetectedLabel, 0, len(labels))
	for _, l := range labels {
		if l.Confidence < e.minConfidence {
			e.logger.Debug("dropping low-confidence label",
				zap.String("label", l.Text),
				zap.Float64("confidence", l.Confidence))
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == 0 {
		return []domain.ResolvedIngredient{}, domain.ErrNoDetection
	}

	results := make([]domain.ResolvedIngredient, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)
	for i, label := range kept {
		g.Go(func() error {
			resolved, err := e.resolveLabel(gctx, label)
			if err != nil {
				return err
			}
			results[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// resolveLabel queries every adapter concurrently and matches the union.
// It only fails when the context is done.
func (e *ReconciliationEngine) resolveLabel(ctx context.Context, label domain.DetectedLabel) (domain.ResolvedIngredient, error) {
	if err := ctx.Err(); err != nil {
		return domain.ResolvedIngredient{}, err
	}

	query := e.preprocessor.PreprocessQuery(label.Text)

	perAdapter := make([][]domain.NutritionRecord, len(e.adapters))
	errs := make([]error, len(e.adapters))
	var g errgroup.Group
	for i, adapter := range e.adapters {
		g.Go(func() error {
			perAdapter[i], errs[i] = adapter.SearchByName(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.ResolvedIngredient{}, err
	}

	var candidates []domain.NutritionRecord
	unavailable := 0
	for i, records := range perAdapter {
		if err := errs[i]; err != nil {
			if !errors.Is(err, domain.ErrNoMatch) {
				unavailable++
				e.logger.Warn("nutrition source failed",
					zap.String("adapter", e.adapters[i].Name()),
					zap.String("label", label.Text),
					zap.Error(err))
			}
			continue
		}
		candidates = append(candidates, records...)
	}

	if len(e.adapters) > 0 && unavailable == len(e.adapters) {
		e.logger.Warn("all nutrition sources failed, using fallback", zap.String("label", label.Text))
		return fallbackIngredient(label), nil
	}

	match, ok := e.matcher.SelectBest(label, candidates)
	if !ok {
		e.logger.Info("no candidate matched, using fallback",
			zap.String("label", label.Text),
			zap.Int("candidates", len(candidates)))
		return fallbackIngredient(label), nil
	}

	return domain.ResolvedIngredient{
		Label:       label,
		Record:      match,
		MatchSource: match.SourceKind,
	}, nil
}

// ResolveBarcode resolves a scanned barcode. Unknown products and source
// failures yield a fallback record named after the code.
func (e *ReconciliationEngine) ResolveBarcode(ctx context.Context, code string) (domain.ResolvedIngredient, error) {
	code = strings.TrimSpace(code)
	if !isValidBarcode(code) {
		return domain.ResolvedIngredient{}, fmt.Errorf("%w: barcode must be 8 to 14 digits", domain.ErrInvalidInput)
	}

	label := domain.DetectedLabel{Text: code, Confidence: 1}
	if e.barcode == nil {
		e.logger.Warn("no barcode source configured, using fallback", zap.String("code", code))
		return fallbackIngredient(label), nil
	}

	rec, err := e.barcode.LookupByBarcode(ctx, code)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.ResolvedIngredient{}, ctxErr
	}
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			e.logger.Info("barcode not found, using fallback", zap.String("code", code))
		} else {
			e.logger.Warn("barcode source failed, using fallback", zap.String("code", code), zap.Error(err))
		}
		return fallbackIngredient(label), nil
	}

	label.Text = rec.DisplayName
	return domain.ResolvedIngredient{
		Label:       label,
		Record:      *rec,
		MatchSource: rec.SourceKind,
	}, nil
}

// FallbackRecord is the generic per-100g estimate used for unresolved foods
func FallbackRecord(name string) domain.NutritionRecord {
	return domain.NutritionRecord{
		Identifier:   name,
		DisplayName:  name,
		Calories:     fallbackCalories,
		ProteinGrams: fallbackProtein,
		CarbsGrams:   fallbackCarbs,
		FatGrams:     fallbackFat,
		SourceKind:   domain.SourceLocalFallback,
		Basis:        domain.BasisPer100g,
	}
}

func fallbackIngredient(label domain.DetectedLabel) domain.ResolvedIngredient {
	return domain.ResolvedIngredient{
		Label:       label,
		Record:      FallbackRecord(label.Text),
		MatchSource: domain.SourceLocalFallback,
	}
}

func validateLabels(labels []domain.DetectedLabel) error {
	if len(labels) == 0 {
		return fmt.Errorf("%w: no labels", domain.ErrInvalidInput)
	}
	for i, l := range labels {
		if strings.TrimSpace(l.Text) == "" {
			return fmt.Errorf("%w: label %d has no text", domain.ErrInvalidInput, i)
		}
		if math.IsNaN(l.Confidence) || l.Confidence < 0 || l.Confidence > 1 {
			return fmt.Errorf("%w: label %d confidence %v outside [0,1]", domain.ErrInvalidInput, i, l.Confidence)
		}
	}
	return nil
}

func isValidBarcode(code string) bool {
	if len(code) < 8 || len(code) > 14 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
