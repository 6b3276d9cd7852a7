package usda

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/snapdiet/backend/internal/infrastructure/apiclient"
	"go.uber.org/zap"
)

// ErrNoFoods is returned when a search yields no foods
var ErrNoFoods = errors.New("no foods found in USDA database")

// Client handles communication with the USDA FoodData Central API
type Client struct {
	api      *apiclient.Client
	apiKey   string
	baseURL  string
	pageSize int
	logger   *zap.Logger
}

// NewClient creates a new USDA API client.
// USDA allows 1000 requests per hour; the limiter runs at that rate with a burst of 10.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api: apiclient.New(apiclient.Options{
			Name:       "usda",
			UserAgent:  "SnapDiet/1.0",
			RatePerSec: 1000.0 / 3600.0,
			Burst:      10,
			Logger:     logger,
		}),
		apiKey:   apiKey,
		baseURL:  baseURL,
		pageSize: 10,
		logger:   logger,
	}
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,Branded")
	params.Add("pageSize", fmt.Sprintf("%d", c.pageSize))

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var resp SearchResponse
	if err := c.api.GetJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil, ErrNoFoods
		}
		return nil, err
	}

	if len(resp.Foods) == 0 {
		c.logger.Debug("no USDA foods found", zap.String("query", query))
		return nil, ErrNoFoods
	}

	c.logger.Debug("USDA search", zap.String("query", query), zap.Int("foods", len(resp.Foods)))
	return &resp, nil
}

// SetRateLimit overrides the default outbound request rate
func (c *Client) SetRateLimit(perSec float64, burst int) {
	c.api.SetRateLimit(perSec, burst)
}
