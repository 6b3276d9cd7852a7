package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	USDA          USDAConfig
	OpenFoodFacts OpenFoodFactsConfig
	Edamam        EdamamConfig
	Rekognition   RekognitionConfig
	Cache         CacheConfig
	Matching      MatchingConfig
	RateLimit     RateLimitConfig
	Log           LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenFoodFactsConfig holds Open Food Facts barcode API configuration
type OpenFoodFactsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

// EdamamConfig holds Edamam food database configuration.
// The adapter is only enabled when both credentials are set.
type EdamamConfig struct {
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Enabled reports whether Edamam credentials are configured
func (e EdamamConfig) Enabled() bool {
	return e.AppID != "" && e.AppKey != ""
}

// RekognitionConfig holds AWS Rekognition configuration
type RekognitionConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Region        string  `mapstructure:"region"`
	MaxLabels     int32   `mapstructure:"max_labels"`
	MinConfidence float32 `mapstructure:"min_confidence"` // percent, 0-100
	FoodOnly      bool    `mapstructure:"food_only"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // only "memory"
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MatchingConfig holds reconciliation configuration
type MatchingConfig struct {
	MinConfidenceThreshold float64 `mapstructure:"min_confidence_threshold"` // 0-1
	MaxConcurrentLabels    int     `mapstructure:"max_concurrent_labels"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP         int `mapstructure:"per_ip"`        // inbound requests per minute per client IP
	USDA          int `mapstructure:"usda"`          // outbound requests per hour
	OpenFoodFacts int `mapstructure:"openfoodfacts"` // outbound requests per minute
	Edamam        int `mapstructure:"edamam"`        // outbound requests per minute
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/snapdiet/")

	// Environment variable settings
	v.SetEnvPrefix("SNAPDIET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory. A missing file is not
// an error, and variables already set in the environment win.
func loadEnvFile() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading .env file: %w", err)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.max_upload_bytes", 5<<20)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Source defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("openfoodfacts.enabled", true)
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "SnapDiet/1.0 (support@snapdiet.app)")
	v.SetDefault("edamam.app_id", "")
	v.SetDefault("edamam.app_key", "")
	v.SetDefault("edamam.base_url", "https://api.edamam.com")
	v.SetDefault("rekognition.enabled", false)
	v.SetDefault("rekognition.region", "us-east-1")
	v.SetDefault("rekognition.max_labels", 10)
	v.SetDefault("rekognition.min_confidence", 50)
	v.SetDefault("rekognition.food_only", true)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.cleanup_interval", "10m")

	// Matching defaults
	v.SetDefault("matching.min_confidence_threshold", 0.5)
	v.SetDefault("matching.max_concurrent_labels", 4)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)
	v.SetDefault("ratelimit.openfoodfacts", 100)
	v.SetDefault("ratelimit.edamam", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set SNAPDIET_USDA_API_KEY)")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if t := config.Matching.MinConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("matching.min_confidence_threshold must be between 0 and 1, got: %v", t)
	}

	if config.Rekognition.Enabled && config.Rekognition.Region == "" {
		return fmt.Errorf("rekognition region is required when rekognition is enabled")
	}

	if f := config.Log.Format; f != "json" && f != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", f)
	}

	return nil
}
