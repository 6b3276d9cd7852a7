package rekognition

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/snapdiet/backend/internal/domain"
	"go.uber.org/zap"
)

// detectLabelsAPI is the Rekognition call the recognizer depends on
type detectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Options configures label detection
type Options struct {
	MaxLabels     int32
	MinConfidence float32 // percent, 0-100
	// FoodOnly keeps labels whose category or parents mention food or drink
	FoodOnly bool
}

// Recognizer detects food labels in images with AWS Rekognition
type Recognizer struct {
	api    detectLabelsAPI
	opts   Options
	logger *zap.Logger
}

// NewRecognizer loads the default AWS configuration for region
func NewRecognizer(ctx context.Context, region string, opts Options, logger *zap.Logger) (*Recognizer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return newRecognizer(rekognition.NewFromConfig(cfg), opts, logger), nil
}

func newRecognizer(api detectLabelsAPI, opts Options, logger *zap.Logger) *Recognizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = 10
	}
	return &Recognizer{api: api, opts: opts, logger: logger}
}

// Recognize returns labels sorted by descending confidence, scaled to 0-1
func (r *Recognizer) Recognize(ctx context.Context, image []byte) ([]domain.DetectedLabel, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
	}

	out, err := r.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(r.opts.MaxLabels),
		MinConfidence: aws.Float32(r.opts.MinConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: rekognition: %v", domain.ErrSourceUnavailable, err)
	}

	labels := make([]domain.DetectedLabel, 0, len(out.Labels))
	for _, l := range out.Labels {
		name := aws.ToString(l.Name)
		if name == "" {
			continue
		}
		if r.opts.FoodOnly && !isFoodLabel(l) {
			continue
		}
		labels = append(labels, domain.DetectedLabel{
			Text:       name,
			Confidence: clamp(float64(aws.ToFloat32(l.Confidence)) / 100),
		})
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Confidence > labels[j].Confidence
	})

	r.logger.Debug("rekognition labels", zap.Int("count", len(labels)))
	return labels, nil
}

func isFoodLabel(l types.Label) bool {
	for _, c := range l.Categories {
		if isFoodTerm(aws.ToString(c.Name)) {
			return true
		}
	}
	for _, p := range l.Parents {
		if isFoodTerm(aws.ToString(p.Name)) {
			return true
		}
	}
	return isFoodTerm(aws.ToString(l.Name))
}

func isFoodTerm(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "food") || strings.Contains(s, "drink") || strings.Contains(s, "beverage")
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
