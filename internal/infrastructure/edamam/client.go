package edamam

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/snapdiet/backend/internal/infrastructure/apiclient"
	"go.uber.org/zap"
)

// ErrNoHints is returned when the parser returns no foods
var ErrNoHints = errors.New("no foods found in Edamam database")

// Food is a food entry from the Edamam food-database parser
type Food struct {
	FoodID    string             `json:"foodId"`
	Label     string             `json:"label"`
	Category  string             `json:"category"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// parserResponse is the response of /api/food-database/v2/parser
type parserResponse struct {
	Parsed []struct {
		Food Food `json:"food"`
	} `json:"parsed"`
	Hints []struct {
		Food Food `json:"food"`
	} `json:"hints"`
}

// Client calls the Edamam food-database parser
type Client struct {
	api      *apiclient.Client
	appID    string
	appKey   string
	baseURL  string
	maxFoods int
	logger   *zap.Logger
}

// NewClient creates an Edamam client. The developer plan allows 10 calls per minute.
func NewClient(appID, appKey, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api: apiclient.New(apiclient.Options{
			Name:       "edamam",
			UserAgent:  "SnapDiet/1.0",
			RatePerSec: 10.0 / 60.0,
			Burst:      3,
			Logger:     logger,
		}),
		appID:    appID,
		appKey:   appKey,
		baseURL:  baseURL,
		maxFoods: 10,
		logger:   logger,
	}
}

// ParseFoods returns the parsed food first, followed by the parser hints,
// with duplicates removed.
func (c *Client) ParseFoods(ctx context.Context, query string) ([]Food, error) {
	params := url.Values{}
	params.Add("ingr", query)
	params.Add("app_id", c.appID)
	params.Add("app_key", c.appKey)
	reqURL := fmt.Sprintf("%s/api/food-database/v2/parser?%s", c.baseURL, params.Encode())

	var resp parserResponse
	if err := c.api.GetJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil, ErrNoHints
		}
		return nil, err
	}

	seen := make(map[string]bool)
	var foods []Food
	add := func(f Food) {
		if f.FoodID == "" || seen[f.FoodID] || len(foods) >= c.maxFoods {
			return
		}
		seen[f.FoodID] = true
		foods = append(foods, f)
	}
	for _, p := range resp.Parsed {
		add(p.Food)
	}
	for _, h := range resp.Hints {
		add(h.Food)
	}

	if len(foods) == 0 {
		return nil, ErrNoHints
	}
	return foods, nil
}

// SetRateLimit overrides the default outbound request rate
func (c *Client) SetRateLimit(perSec float64, burst int) {
	c.api.SetRateLimit(perSec, burst)
}
