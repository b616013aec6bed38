package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks transport failures: unreachable host, timeout, refused connection.
	ErrNetwork = errors.New("weather: network failure")
	// ErrProtocol marks non-2xx responses, undecodable bodies and missing fields.
	ErrProtocol = errors.New("weather: protocol failure")
	// ErrCache marks persistence read/write failures.
	ErrCache = errors.New("weather: cache failure")
)

// ForecastFetcher abstracts a live multi-day forecast source (e.g. OpenWeatherMap).
type ForecastFetcher interface {
	Name() string
	FetchForecast(ctx context.Context, coord Coordinate) (RawForecast, error)
}

// Cache is the key-value slot the resolver persists successful fetches in.
// Get reports found=false for an absent key without an error.
type Cache interface {
	Get(ctx context.Context, key string) (entry CacheEntry, found bool, err error)
	Set(ctx context.Context, key string, entry CacheEntry) error
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time.
type Clock func() time.Time
