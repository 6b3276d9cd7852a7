package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/snapdiet/backend/config"
	httpDelivery "github.com/snapdiet/backend/internal/delivery/http"
	"github.com/snapdiet/backend/internal/domain"
	"github.com/snapdiet/backend/internal/infrastructure/cache"
	"github.com/snapdiet/backend/internal/infrastructure/edamam"
	"github.com/snapdiet/backend/internal/infrastructure/openfoodfacts"
	"github.com/snapdiet/backend/internal/infrastructure/rekognition"
	"github.com/snapdiet/backend/internal/infrastructure/usda"
	"github.com/snapdiet/backend/internal/logger"
	"github.com/snapdiet/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	zl.Info("starting SnapDiet backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer memoryCache.Close()

	adapters := buildSearchAdapters(cfg, memoryCache, zl)
	barcode := buildBarcodeAdapter(cfg, zl)

	var recognizer domain.Recognizer
	if cfg.Rekognition.Enabled {
		r, err := rekognition.NewRecognizer(ctx, cfg.Rekognition.Region, rekognition.Options{
			MaxLabels:     cfg.Rekognition.MaxLabels,
			MinConfidence: cfg.Rekognition.MinConfidence,
			FoodOnly:      cfg.Rekognition.FoodOnly,
		}, zl)
		if err != nil {
			zl.Fatal("failed to configure rekognition", zap.Error(err))
		}
		recognizer = r
		zl.Info("image recognition enabled", zap.String("region", cfg.Rekognition.Region))
	} else {
		zl.Warn("image recognition disabled; /scans/image will answer 503")
	}

	// Initialize usecase layer
	engine := usecase.NewReconciliationEngine(adapters, barcode, usecase.ReconciliationConfig{
		MinConfidence:       cfg.Matching.MinConfidenceThreshold,
		MaxConcurrentLabels: cfg.Matching.MaxConcurrentLabels,
		EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
	}, zl)
	nutritionService := usecase.NewNutritionService(engine, recognizer, zl)

	zl.Info("matching configured",
		zap.Float64("min_confidence", cfg.Matching.MinConfidenceThreshold),
		zap.Int("max_concurrent_labels", cfg.Matching.MaxConcurrentLabels),
		zap.Bool("debug", cfg.Matching.EnableDebugLogging))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(nutritionService, cfg.Server.MaxUploadBytes, zl)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zl)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		zl.Fatal("failed to start server", zap.Error(err))
	case <-ctx.Done():
	}

	zl.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildSearchAdapters returns the name-search sources, each behind the candidate cache
func buildSearchAdapters(cfg *config.Config, repo domain.CacheRepository, zl *zap.Logger) []domain.NameSearchAdapter {
	usdaClient := usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL, zl)
	if cfg.RateLimit.USDA > 0 {
		usdaClient.SetRateLimit(float64(cfg.RateLimit.USDA)/3600.0, 10)
	}
	zl.Info("USDA API configured", zap.String("base_url", cfg.USDA.BaseURL), zap.String("key", maskKey(cfg.USDA.APIKey)))

	adapters := []domain.NameSearchAdapter{
		usecase.NewCachedSearchAdapter(usda.NewAdapter(usdaClient, zl), repo, cfg.Cache.TTL, zl),
	}

	if cfg.Edamam.Enabled() {
		edamamClient := edamam.NewClient(cfg.Edamam.AppID, cfg.Edamam.AppKey, cfg.Edamam.BaseURL, zl)
		if cfg.RateLimit.Edamam > 0 {
			edamamClient.SetRateLimit(float64(cfg.RateLimit.Edamam)/60.0, 3)
		}
		adapters = append(adapters,
			usecase.NewCachedSearchAdapter(edamam.NewAdapter(edamamClient, zl), repo, cfg.Cache.TTL, zl))
		zl.Info("Edamam API configured", zap.String("base_url", cfg.Edamam.BaseURL))
	}

	return adapters
}

// buildBarcodeAdapter returns nil when barcode lookup is disabled
func buildBarcodeAdapter(cfg *config.Config, zl *zap.Logger) domain.BarcodeAdapter {
	if !cfg.OpenFoodFacts.Enabled {
		zl.Warn("barcode lookup disabled; barcode scans will use fallback records")
		return nil
	}
	client := openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent, zl)
	if cfg.RateLimit.OpenFoodFacts > 0 {
		client.SetRateLimit(float64(cfg.RateLimit.OpenFoodFacts)/60.0, 5)
	}
	zl.Info("Open Food Facts configured", zap.String("base_url", cfg.OpenFoodFacts.BaseURL))
	return openfoodfacts.NewAdapter(client, zl)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

func init() {
	// Set log flags for startup errors before the zap logger exists
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
