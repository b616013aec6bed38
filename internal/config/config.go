package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/farmsight/internal/farm"
	"github.com/i474232898/farmsight/internal/weather/providers"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type AppConfig struct {
	OpenWeatherAPIKey      string
	OpenWeatherForecastURL string
	GeocoderAPIKey         string

	// CacheDuration is how long a live forecast is served from cache.
	CacheDuration  time.Duration
	CacheNamespace string
	CacheBackend   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// StoreMaxAge bounds how long the in-memory backend keeps any key (0 = forever).
	StoreMaxAge time.Duration

	HTTPTimeout        time.Duration
	FetchRatePerMinute float64

	// RefreshInterval controls how often the scheduler refreshes the forecast.
	RefreshInterval time.Duration

	// FarmLocation is the catalog key used until a location is selected.
	FarmLocation string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherForecastURL = getenvDefault("OPENWEATHER_FORECAST_URL", providers.DefaultOpenWeatherForecastURL)
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.CacheDuration, err = getenvDuration("CACHE_DURATION", "30m"); err != nil {
		return nil, err
	}
	cfg.CacheNamespace = getenvDefault("CACHE_NAMESPACE", "farmsight")

	cfg.CacheBackend = strings.ToLower(getenvDefault("CACHE_BACKEND", BackendMemory))
	if cfg.CacheBackend != BackendMemory && cfg.CacheBackend != BackendRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q: want %s or %s", cfg.CacheBackend, BackendMemory, BackendRedis)
	}
	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)

	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.FetchRatePerMinute = getenvFloat("FETCH_RATE_PER_MINUTE", 60)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	cfg.FarmLocation = strings.ToLower(getenvDefault("FARM_LOCATION", farm.DefaultLocationKey))
	if _, ok := farm.LookupLocation(cfg.FarmLocation); !ok {
		return nil, fmt.Errorf("invalid FARM_LOCATION %q", cfg.FarmLocation)
	}

	cfg.Port = getenvDefault("PORT", "8080")

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

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
