package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-block/internal/block"
	"github.com/i474232898/weather-block/internal/weather/providers"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// HTTPTimeout bounds every outbound upstream request.
	HTTPTimeout time.Duration `validate:"gt=0"`

	GeocodingURL string `validate:"required,url"`
	ForecastURL  string `validate:"required,url"`

	// DefaultCity is used when a block names no city.
	DefaultCity string `validate:"required"`

	// UpstreamBreaker wraps upstream calls in a circuit breaker.
	UpstreamBreaker bool

	// Canary probing; disabled when CanaryCities is empty.
	CanaryCities   []string `validate:"dive,required"`
	CanaryInterval time.Duration

	// In-memory probe journal retention.
	StoreMaxHistory int           `validate:"gte=0"` // max number of probes per city (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"gte=0"` // max age of probes (0 = unlimited)
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.GeocodingURL = getenvDefault("GEOCODING_URL", providers.DefaultGeocodingURL)
	cfg.ForecastURL = getenvDefault("FORECAST_URL", providers.DefaultForecastURL)
	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", block.DefaultCity)
	cfg.UpstreamBreaker = getenvBool("UPSTREAM_BREAKER", false)

	cfg.CanaryCities = getenvList("CANARY_CITIES")
	interval, err := time.ParseDuration(getenvDefault("CANARY_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CANARY_INTERVAL: %w", err)
	}
	cfg.CanaryInterval = interval

	// Journal retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAge, err := time.ParseDuration(getenvDefault("STORE_MAX_AGE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// getenvList splits a comma-separated variable, dropping blank entries.
func getenvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
