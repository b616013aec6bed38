package weather

import (
	"context"
	"fmt"
	"time"
)

// DefaultCacheDuration is how long a cached live forecast stays valid.
const DefaultCacheDuration = 30 * time.Minute

const legacyCacheKey = "weather_cache"

var errNoFetcher = fmt.Errorf("%w: no forecast fetcher configured", ErrNetwork)

// ResolverConfig tunes a Resolver. Zero values fall back to defaults.
type ResolverConfig struct {
	// CacheNamespace prefixes the cache key so several profiles can share one store.
	CacheNamespace string
	CacheDuration  time.Duration
	// Zones are listed in every generated weather alert.
	Zones  []string
	Clock  Clock
	Events Events
}

// Resolver resolves a forecast through live fetch, cache and the static
// dataset. It keeps no state of its own besides its collaborators and does
// not guard against concurrent Resolve calls.
type Resolver struct {
	fetcher ForecastFetcher
	cache   Cache
	key     string
	ttl     time.Duration
	zones   []string
	now     Clock
	events  Events
}

// NewResolver creates a Resolver. fetcher and cache may be nil, in which case
// live fetches always fail over to static data and nothing is cached.
func NewResolver(fetcher ForecastFetcher, cache Cache, cfg ResolverConfig) *Resolver {
	key := legacyCacheKey
	if cfg.CacheNamespace != "" {
		key = cfg.CacheNamespace + ":weather"
	}
	ttl := cfg.CacheDuration
	if ttl <= 0 {
		ttl = DefaultCacheDuration
	}
	now := cfg.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &Resolver{
		fetcher: fetcher,
		cache:   cache,
		key:     key,
		ttl:     ttl,
		zones:   append([]string(nil), cfg.Zones...),
		now:     now,
		events:  cfg.Events,
	}
}

// CacheKey returns the key the resolver stores its CacheEntry under.
func (r *Resolver) CacheKey() string {
	return r.key
}

// Resolve returns a forecast for coord. It never fails: every error degrades
// to the static dataset and Source tells the caller which tier answered.
//
// ModeStatic never touches the network or the cache. ModeAPI skips the cache
// read but still stores a successful fetch. ModeAuto (and any unknown mode)
// serves a valid cache entry before trying the network.
func (r *Resolver) Resolve(ctx context.Context, coord Coordinate, mode Mode) ForecastResult {
	switch mode {
	case ModeStatic:
		return StaticForecast()
	case ModeAPI:
		return r.resolveLive(ctx, coord, mode)
	default:
		if cached, ok := r.cached(ctx); ok {
			return cached
		}
		return r.resolveLive(ctx, coord, ModeAuto)
	}
}

// InvalidateCache deletes the cached forecast, e.g. after a location change.
func (r *Resolver) InvalidateCache(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	if err := r.cache.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("invalidate %s: %w", r.key, err)
	}
	return nil
}

func (r *Resolver) cached(ctx context.Context) (ForecastResult, bool) {
	if r.cache == nil {
		return ForecastResult{}, false
	}

	entry, found, err := r.cache.Get(ctx, r.key)
	if err != nil {
		r.events.cacheError("get", r.key, err)
		return ForecastResult{}, false
	}
	if !found {
		return ForecastResult{}, false
	}

	age := r.now().Sub(entry.StoredAt)
	if age >= r.ttl {
		return ForecastResult{}, false
	}

	r.events.cacheHit(r.key, age)
	res := entry.Payload.clone()
	res.Source = SourceCache
	return res, true
}

func (r *Resolver) resolveLive(ctx context.Context, coord Coordinate, mode Mode) ForecastResult {
	res, err := r.fetchLive(ctx, coord)
	if err != nil {
		name := "none"
		if r.fetcher != nil {
			name = r.fetcher.Name()
		}
		r.events.fetchError(name, err)
		r.events.fallback(mode, err)
		return StaticForecast()
	}

	if r.cache != nil {
		entry := CacheEntry{Payload: res, StoredAt: res.GeneratedAt}
		if err := r.cache.Set(ctx, r.key, entry); err != nil {
			r.events.cacheError("set", r.key, err)
		}
	}
	return res.clone()
}

func (r *Resolver) fetchLive(ctx context.Context, coord Coordinate) (ForecastResult, error) {
	if r.fetcher == nil {
		return ForecastResult{}, errNoFetcher
	}

	raw, err := r.fetcher.FetchForecast(ctx, coord)
	if err != nil {
		return ForecastResult{}, err
	}
	if len(raw.Entries) == 0 {
		return ForecastResult{}, fmt.Errorf("%w: forecast has no entries", ErrProtocol)
	}

	days := AggregateDaily(raw.Entries)
	return ForecastResult{
		Location:    raw.LocationLabel,
		GeneratedAt: r.now(),
		Forecast:    days,
		Alerts:      GenerateAlerts(days, r.zones),
		Source:      SourceAPI,
	}, nil
}
