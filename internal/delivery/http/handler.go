package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapdiet/backend/internal/domain"
	"github.com/snapdiet/backend/internal/usecase"
	"go.uber.org/zap"
)

// PlanHeader selects the subscription tier when the request body or query does not
const PlanHeader = "X-Plan-Tier"

const defaultMaxUploadBytes = 5 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	nutritionService *usecase.NutritionService
	maxUploadBytes   int64
	logger           *zap.Logger
}

// NewHandler creates a new HTTP handler. nutritionService may be nil, in
// which case scan endpoints answer 503.
func NewHandler(nutritionService *usecase.NutritionService, maxUploadBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		nutritionService: nutritionService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "snapdiet-backend",
		"version": "1.0.0",
	})
}

// ScanLabelsRequest is the body of POST /scans/labels
type ScanLabelsRequest struct {
	Labels []domain.DetectedLabel `json:"labels"`
	Plan   string                 `json:"plan"`
}

// ScanLabels resolves labels detected on the client
func (h *Handler) ScanLabels(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req ScanLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tier, ok := h.planTier(c, req.Plan)
	if !ok {
		return
	}

	summary, err := h.nutritionService.ScanLabels(c.Request.Context(), req.Labels, tier)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ScanImage runs image recognition on an uploaded photo
func (h *Handler) ScanImage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	tier, ok := h.planTier(c, c.PostForm("plan"))
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image"})
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image"})
		return
	}

	summary, err := h.nutritionService.ScanImage(c.Request.Context(), image, tier)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ScanBarcode resolves a packaged product by barcode
func (h *Handler) ScanBarcode(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	tier, ok := h.planTier(c, c.Query("plan"))
	if !ok {
		return
	}

	summary, err := h.nutritionService.ScanBarcode(c.Request.Context(), c.Param("code"), tier)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetPlan describes a tier's visible fields and daily quota
func (h *Handler) GetPlan(c *gin.Context) {
	tier, err := domain.ParsePlanTier(c.Param("tier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, usecase.DescribePlan(tier))
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.nutritionService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "nutrition service not configured"})
		return false
	}
	return true
}

// planTier resolves the tier from an explicit value or the X-Plan-Tier header
func (h *Handler) planTier(c *gin.Context, explicit string) (domain.PlanTier, bool) {
	name := explicit
	if name == "" {
		name = c.GetHeader(PlanHeader)
	}
	tier, err := domain.ParsePlanTier(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return tier, true
}

// respondError maps domain errors to HTTP responses
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoDetection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": domain.ErrNoDetection.Error()})
	case errors.Is(err, domain.ErrRecognizerUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image recognition not configured"})
	case errors.Is(err, domain.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "image recognition temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.logger.Error("unexpected scan error", zap.Error(err), zap.String("request_id", requestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
