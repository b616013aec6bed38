package farm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/farmsight/internal/store"
	"github.com/i474232898/farmsight/internal/weather"
)

var (
	ErrUnknownLocation    = errors.New("unknown location")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrRefreshInProgress  = errors.New("forecast refresh already in progress")
	ErrZoneNotFound       = errors.New("zone not found")
)

var coordValidator = validator.New()

// SessionConfig configures a Session.
type SessionConfig struct {
	// Namespace prefixes the persisted location key.
	Namespace       string
	DefaultLocation string
	// Geocoder labels custom locations that come without a name. Optional.
	Geocoder ReverseGeocoder
	Dataset  Dataset
}

// Session is the dashboard state for one farm: selected location, latest
// forecast and the static farm dataset. It is safe for concurrent use.
type Session struct {
	resolver    *weather.Resolver
	kv          store.KV
	locationKey string
	geocoder    ReverseGeocoder
	dataset     Dataset

	mu       sync.RWMutex
	location Location
	last     *weather.ForecastResult

	// refreshing is held for the duration of a Refresh or a location change.
	refreshing sync.Mutex
}

// NewSession creates a Session, restoring the last persisted location from kv
// when one exists.
func NewSession(ctx context.Context, resolver *weather.Resolver, kv store.KV, cfg SessionConfig) (*Session, error) {
	if resolver == nil {
		return nil, errors.New("farm session requires a resolver")
	}

	key := "location"
	if cfg.Namespace != "" {
		key = cfg.Namespace + ":location"
	}

	defKey := cfg.DefaultLocation
	if defKey == "" {
		defKey = DefaultLocationKey
	}
	loc, ok := LookupLocation(defKey)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, defKey)
	}

	s := &Session{
		resolver:    resolver,
		kv:          kv,
		locationKey: key,
		geocoder:    cfg.Geocoder,
		dataset:     cfg.Dataset,
		location:    loc,
	}

	if saved, ok := s.loadLocation(ctx); ok {
		s.location = saved
	}
	return s, nil
}

// Location returns the currently selected location.
func (s *Session) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// SelectLocation switches to a catalog location.
func (s *Session) SelectLocation(ctx context.Context, key string) (Location, error) {
	loc, ok := LookupLocation(strings.ToLower(strings.TrimSpace(key)))
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownLocation, key)
	}
	s.setLocation(ctx, loc)
	return loc, nil
}

// SetCustomLocation switches to an arbitrary coordinate. An empty name is
// filled by the reverse geocoder, or by the coordinates themselves.
func (s *Session) SetCustomLocation(ctx context.Context, name string, lat, lon float64) (Location, error) {
	if err := coordValidator.Struct(weather.Coordinate{Lat: lat, Lon: lon}); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}

	name = strings.TrimSpace(name)
	if name == "" && s.geocoder != nil {
		label, err := s.geocoder.Label(lat, lon)
		if err != nil {
			log.Printf("WARN: %v", err)
		} else {
			name = label
		}
	}
	if name == "" {
		name = fmt.Sprintf("Custom (%g, %g)", lat, lon)
	}

	loc := Location{Name: name, Lat: lat, Lon: lon, Region: "Custom"}
	s.setLocation(ctx, loc)
	return loc, nil
}

// setLocation waits for an in-flight refresh so its cache write cannot land
// after the invalidation below.
func (s *Session) setLocation(ctx context.Context, loc Location) {
	s.refreshing.Lock()
	defer s.refreshing.Unlock()

	s.mu.Lock()
	s.location = loc
	s.last = nil
	s.mu.Unlock()

	s.saveLocation(ctx, loc)
	if err := s.resolver.InvalidateCache(ctx); err != nil {
		log.Printf("WARN: %v", err)
	}
	log.Printf("INFO: location set to %s (%.4f, %.4f)", loc.Name, loc.Lat, loc.Lon)
}

func (s *Session) loadLocation(ctx context.Context) (Location, bool) {
	if s.kv == nil {
		return Location{}, false
	}
	raw, err := s.kv.Get(ctx, s.locationKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN: load location %s: %v", s.locationKey, err)
		}
		return Location{}, false
	}

	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		log.Printf("WARN: decode location %s: %v", s.locationKey, err)
		return Location{}, false
	}
	if coordValidator.Struct(loc.Coordinate()) != nil || loc.Name == "" {
		return Location{}, false
	}
	return loc, true
}

func (s *Session) saveLocation(ctx context.Context, loc Location) {
	if s.kv == nil {
		return
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		log.Printf("WARN: encode location: %v", err)
		return
	}
	if err := s.kv.Set(ctx, s.locationKey, raw); err != nil {
		log.Printf("WARN: save location %s: %v", s.locationKey, err)
	}
}

// Refresh resolves the forecast for the current location. Only one refresh
// runs at a time; overlapping calls get ErrRefreshInProgress.
func (s *Session) Refresh(ctx context.Context, mode weather.Mode) (weather.ForecastResult, error) {
	if !s.refreshing.TryLock() {
		return weather.ForecastResult{}, ErrRefreshInProgress
	}
	defer s.refreshing.Unlock()

	loc := s.Location()
	res := s.resolver.Resolve(ctx, loc.Coordinate(), mode)
	if res.Location == "" {
		res.Location = loc.Name
	}

	s.mu.Lock()
	if s.location == loc {
		stored := res
		s.last = &stored
	}
	s.mu.Unlock()

	log.Printf("DEBUG: forecast for %s resolved from %s (%d days)", loc.Name, res.Source, len(res.Forecast))
	return res, nil
}

// LastForecast returns the most recent forecast for the current location.
func (s *Session) LastForecast() (weather.ForecastResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return weather.ForecastResult{}, false
	}
	return *s.last, true
}

// Alerts builds the dashboard alert feed from the farm dataset and the
// last resolved forecast.
func (s *Session) Alerts(now time.Time) []DashboardAlert {
	var weatherAlerts []weather.Alert
	if last, ok := s.LastForecast(); ok {
		weatherAlerts = last.Alerts
	}
	return BuildAlerts(s.dataset, weatherAlerts, now)
}

// Zones evaluates the soil health of every zone.
func (s *Session) Zones() []ZoneReport {
	return s.dataset.ZoneReports()
}

// Zone evaluates a single zone.
func (s *Session) Zone(id string) (ZoneReport, error) {
	for _, zr := range s.dataset.ZoneReports() {
		if strings.EqualFold(zr.ID, id) {
			return zr, nil
		}
	}
	return ZoneReport{}, fmt.Errorf("%w: %q", ErrZoneNotFound, id)
}

// Dataset returns the farm dataset.
func (s *Session) Dataset() Dataset {
	return s.dataset
}
