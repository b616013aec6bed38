package weather

import (
	"time"
)

// Condition is the condition label reported for a forecast sample,
// e.g. "Clear" or "Rain".
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
)

// Mode selects how Resolve walks the fallback tiers.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAPI    Mode = "api"
	ModeStatic Mode = "static"
)

// ParseMode maps a textual mode to a Mode. Empty input means auto.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, true
	case ModeAPI:
		return ModeAPI, true
	case ModeStatic:
		return ModeStatic, true
	default:
		return "", false
	}
}

// Source tags which tier produced a ForecastResult.
type Source string

const (
	SourceAPI    Source = "api"
	SourceCache  Source = "cache"
	SourceStatic Source = "static"
)

// Coordinate is a WGS84 position. Resolve does not validate it.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// RawForecastEntry is one 3-hour sample from the upstream forecast.
type RawForecastEntry struct {
	Timestamp    time.Time
	TemperatureC float64
	HumidityPct  float64
	PrecipMm     float64 // 0 when the upstream omits the field
	Condition    Condition
	WindSpeedMS  float64
}

// RawForecast is the upstream payload after decoding, before aggregation.
type RawForecast struct {
	LocationLabel string
	Entries       []RawForecastEntry
}

// DailyForecast is one calendar day of aggregated forecast.
type DailyForecast struct {
	Date       string    `json:"date"` // 2006-01-02
	Day        string    `json:"day"`  // Mon, Tue, ...
	TempMin    int       `json:"temp_min"`
	TempMax    int       `json:"temp_max"`
	Humidity   int       `json:"humidity"`
	RainfallMm int       `json:"rainfall_mm"`
	Condition  Condition `json:"condition"`
	Icon       string    `json:"icon"`
	WindSpeed  int       `json:"wind_speed"` // km/h
	Advisory   string    `json:"advisory"`
}

// Alert is a weather alert derived from, or shipped with, a forecast.
type Alert struct {
	Severity      string   `json:"severity"`
	Message       string   `json:"message"`
	AffectedZones []string `json:"affected_zones"`
}

// ForecastResult is what Resolve hands back to callers.
type ForecastResult struct {
	Location    string          `json:"location"`
	GeneratedAt time.Time       `json:"generated_at"`
	Forecast    []DailyForecast `json:"forecast"`
	Alerts      []Alert         `json:"alerts"`
	Source      Source          `json:"source"`
}

// CacheEntry is the persisted form of a successful live fetch.
type CacheEntry struct {
	Payload  ForecastResult `json:"data"`
	StoredAt time.Time      `json:"timestamp"`
}

// clone returns a deep copy so callers cannot alias resolver-owned slices.
func (r ForecastResult) clone() ForecastResult {
	out := r
	out.Forecast = append([]DailyForecast(nil), r.Forecast...)
	out.Alerts = make([]Alert, len(r.Alerts))
	for i, a := range r.Alerts {
		a.AffectedZones = append(make([]string, 0, len(a.AffectedZones)), a.AffectedZones...)
		out.Alerts[i] = a
	}
	return out
}
