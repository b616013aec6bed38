package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/i474232898/farmsight/internal/weather"
)

// ForecastCache adapts a KV to weather.Cache, storing entries as JSON.
type ForecastCache struct {
	kv KV
}

var _ weather.Cache = (*ForecastCache)(nil)

func NewForecastCache(kv KV) *ForecastCache {
	return &ForecastCache{kv: kv}
}

func (c *ForecastCache) Get(ctx context.Context, key string) (weather.CacheEntry, bool, error) {
	raw, err := c.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return weather.CacheEntry{}, false, nil
	}
	if err != nil {
		return weather.CacheEntry{}, false, fmt.Errorf("%w: %v", weather.ErrCache, err)
	}

	var entry weather.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return weather.CacheEntry{}, false, fmt.Errorf("%w: decode %s: %v", weather.ErrCache, key, err)
	}
	return entry, true, nil
}

func (c *ForecastCache) Set(ctx context.Context, key string, entry weather.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", weather.ErrCache, key, err)
	}
	if err := c.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrCache, err)
	}
	return nil
}

func (c *ForecastCache) Delete(ctx context.Context, key string) error {
	if err := c.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %v", weather.ErrCache, err)
	}
	return nil
}
