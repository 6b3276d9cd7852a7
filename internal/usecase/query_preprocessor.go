package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Compiled regex patterns for query preprocessing
var (
	// Matches size/quantity patterns like "12 oz", "1.5 liter", "250g"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:fl\s*oz|oz|ounces?|lbs?|pounds?|ml|liters?|l|kg|grams?|g)\b`)

	// Matches pack/count patterns like "12 pack", "pack of 6", "6 ct"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(?:pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b`)

	// Characters that upstream search APIs reject
	specialCharsPattern = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~` + "`" + `"]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are marketing and packaging terms that never help a food search
var queryNoiseWords = map[string]bool{
	"value": true, "family": true, "bonus": true, "new": true, "improved": true,
	"premium": true, "select": true, "quality": true, "delicious": true, "tasty": true,
	"size": true, "snack": true, "single": true,
	"package": true, "box": true, "bag": true, "bottle": true, "can": true,
	"jar": true, "tub": true, "carton": true, "pouch": true,
	"food": true, "dish": true, "meal": true, "product": true,
}

const maxQueryLength = 100

// QueryPreprocessor turns a detected label into a search query for the
// nutrition sources. Matching still uses the original label text.
type QueryPreprocessor struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger, enableDebugLogging bool) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{logger: logger, enableDebugLogging: enableDebugLogging}
}

// PreprocessQuery strips sizes, pack counts, noise words and unsafe
// characters. If nothing useful is left the trimmed input is returned.
func (p *QueryPreprocessor) PreprocessQuery(text string) string {
	original := strings.TrimSpace(text)
	if original == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(original, "&", " and ")
	cleaned = sizeQuantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = specialCharsPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = strings.Trim(multiSpacePattern.ReplaceAllString(cleaned, " "), " ,-;:")

	if cleaned == "" {
		cleaned = multiSpacePattern.ReplaceAllString(original, " ")
	}

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		p.logger.Debug("preprocessed query", zap.String("input", original), zap.String("output", cleaned))
	}
	return cleaned
}

// removeNoiseWords drops noise terms while keeping the caller's casing
func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if !queryNoiseWords[strings.ToLower(strings.Trim(word, ",.!?;:-'"))] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
