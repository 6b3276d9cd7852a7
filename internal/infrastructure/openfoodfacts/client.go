package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/snapdiet/backend/internal/infrastructure/apiclient"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when Open Food Facts has no product for a code
var ErrProductNotFound = errors.New("product not found in Open Food Facts")

// Product is the subset of an Open Food Facts product record the service reads
type Product struct {
	Code            string                 `json:"code"`
	ProductName     string                 `json:"product_name"`
	ProductNameEn   string                 `json:"product_name_en"`
	GenericName     string                 `json:"generic_name"`
	Brands          string                 `json:"brands"`
	ServingSize     string                 `json:"serving_size,omitempty"`
	ServingQuantity interface{}            `json:"serving_quantity,omitempty"`
	Nutriments      map[string]interface{} `json:"nutriments"`
}

// Name returns the best available product name
func (p *Product) Name() string {
	switch {
	case p.ProductName != "":
		return p.ProductName
	case p.ProductNameEn != "":
		return p.ProductNameEn
	default:
		return p.GenericName
	}
}

// productResponse is the envelope of /api/v2/product/{code}.json
type productResponse struct {
	Code    string   `json:"code"`
	Status  int      `json:"status"`
	Product *Product `json:"product"`
}

// Client fetches products from Open Food Facts
type Client struct {
	api     *apiclient.Client
	baseURL string
	logger  *zap.Logger
}

// NewClient creates an Open Food Facts client.
// The public API asks for at most 100 product reads per minute.
func NewClient(baseURL, userAgent string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		api: apiclient.New(apiclient.Options{
			Name:       "openfoodfacts",
			UserAgent:  userAgent,
			RatePerSec: 100.0 / 60.0,
			Burst:      5,
			Logger:     logger,
		}),
		baseURL: baseURL,
		logger:  logger,
	}
}

// GetProduct fetches one product by barcode
func (c *Client) GetProduct(ctx context.Context, code string) (*Product, error) {
	params := url.Values{}
	params.Add("fields", "code,product_name,product_name_en,generic_name,brands,serving_size,serving_quantity,nutriments")
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?%s", c.baseURL, url.PathEscape(code), params.Encode())

	var resp productResponse
	if err := c.api.GetJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if resp.Status != 1 || resp.Product == nil {
		c.logger.Debug("barcode not in Open Food Facts", zap.String("code", code))
		return nil, ErrProductNotFound
	}
	if resp.Product.Code == "" {
		resp.Product.Code = code
	}
	return resp.Product, nil
}

// SetRateLimit overrides the default outbound request rate
func (c *Client) SetRateLimit(perSec float64, burst int) {
	c.api.SetRateLimit(perSec, burst)
}
