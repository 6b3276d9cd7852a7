package usecase

import (
	"strings"

	"github.com/snapdiet/backend/internal/domain"
	"go.uber.org/zap"
)

// Match strength, strongest first
const (
	matchNone = iota
	matchSegment
	matchExact
)

// CandidateMatcher picks the record that best fits a detected label.
//
// Rules, in order:
//  1. case-insensitive exact match of label text and display name
//  2. the label contains, or is contained in, the display name's leading
//     segment (text before the first comma)
//
// Within the strongest rule that matched, the highest SourceKind priority
// wins and remaining ties keep input order, so the result never depends on
// adapter timing.
type CandidateMatcher struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewCandidateMatcher creates a matcher
func NewCandidateMatcher(logger *zap.Logger, enableDebugLogging bool) *CandidateMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateMatcher{logger: logger, enableDebugLogging: enableDebugLogging}
}

// SelectBest returns the chosen candidate, or false when nothing matches
func (m *CandidateMatcher) SelectBest(label domain.DetectedLabel, candidates []domain.NutritionRecord) (domain.NutritionRecord, bool) {
	text := normalizeLabel(label.Text)
	if text == "" {
		return domain.NutritionRecord{}, false
	}

	bestIdx := -1
	bestStrength := matchNone
	for i, c := range candidates {
		strength := matchStrength(text, c.DisplayName)
		if strength == matchNone {
			continue
		}
		if m.enableDebugLogging {
			m.logger.Debug("candidate matched",
				zap.String("label", label.Text),
				zap.String("candidate", c.DisplayName),
				zap.String("source", string(c.SourceKind)),
				zap.Int("strength", strength))
		}

		if bestIdx < 0 ||
			strength > bestStrength ||
			(strength == bestStrength && c.SourceKind.Priority() > candidates[bestIdx].SourceKind.Priority()) {
			bestIdx = i
			bestStrength = strength
		}
	}

	if bestIdx < 0 {
		return domain.NutritionRecord{}, false
	}
	return candidates[bestIdx], true
}

// matchStrength classifies how a normalized label relates to a display name
func matchStrength(label, displayName string) int {
	name := normalizeLabel(displayName)
	if name == "" {
		return matchNone
	}
	if label == name {
		return matchExact
	}

	segment := leadingSegment(name)
	if segment == "" {
		return matchNone
	}
	if strings.Contains(segment, label) || strings.Contains(label, segment) {
		return matchSegment
	}
	return matchNone
}

// leadingSegment returns the text before the first comma, trimmed
func leadingSegment(name string) string {
	if idx := strings.Index(name, ","); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// normalizeLabel lower-cases and collapses whitespace
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
