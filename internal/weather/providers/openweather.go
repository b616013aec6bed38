package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/farmsight/internal/weather"
)

// DefaultOpenWeatherForecastURL is the 5 day / 3 hour forecast endpoint.
const DefaultOpenWeatherForecastURL = "https://api.openweathermap.org/data/2.5/forecast"

const dtTxtLayout = "2006-01-02 15:04:05"

var payloadValidator = validator.New()

// OpenWeatherForecast implements weather.ForecastFetcher for the
// OpenWeatherMap 5 day / 3 hour forecast.
type OpenWeatherForecast struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ weather.ForecastFetcher = (*OpenWeatherForecast)(nil)

// NewOpenWeatherForecast builds the fetcher. An empty baseURL selects the
// public endpoint; a nil limiter disables outbound throttling.
func NewOpenWeatherForecast(client *http.Client, apiKey, baseURL string, limiter *rate.Limiter) *OpenWeatherForecast {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherForecastURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather-forecast",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherForecast{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Limiter: limiter,
		},
		circuit: cb,
	}
}

func (p *OpenWeatherForecast) Name() string {
	return p.name
}

// owmForecastPayload mirrors the parts of the forecast response we read.
// Pointer fields distinguish a missing value from a zero one.
type owmForecastPayload struct {
	List []owmEntry `json:"list" validate:"required,min=1,dive"`
	City *owmCity   `json:"city" validate:"required"`
}

type owmCity struct {
	Name    string `json:"name" validate:"required"`
	Country string `json:"country"`
}

type owmEntry struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  *struct {
		Temp     *float64 `json:"temp" validate:"required"`
		Humidity *float64 `json:"humidity" validate:"required"`
	} `json:"main" validate:"required"`
	Weather []struct {
		Main string `json:"main" validate:"required"`
	} `json:"weather" validate:"required,min=1,dive"`
	Wind *struct {
		Speed *float64 `json:"speed" validate:"required"`
	} `json:"wind" validate:"required"`
	Rain *struct {
		ThreeH float64 `json:"3h"`
	} `json:"rain"`
}

func (p *OpenWeatherForecast) FetchForecast(ctx context.Context, coord weather.Coordinate) (weather.RawForecast, error) {
	if p.apiKey == "" {
		return weather.RawForecast{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetwork)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.RawForecast{}, err
	}
	defer resp.Body.Close()

	var payload owmForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.RawForecast{}, fmt.Errorf("%w: decode forecast: %v", weather.ErrProtocol, err)
	}
	if err := payloadValidator.Struct(payload); err != nil {
		return weather.RawForecast{}, fmt.Errorf("%w: forecast payload: %v", weather.ErrProtocol, err)
	}

	entries := make([]weather.RawForecastEntry, 0, len(payload.List))
	for i, item := range payload.List {
		ts, err := entryTime(item)
		if err != nil {
			return weather.RawForecast{}, fmt.Errorf("%w: entry %d: %v", weather.ErrProtocol, i, err)
		}

		var precip float64
		if item.Rain != nil {
			precip = item.Rain.ThreeH
		}

		entries = append(entries, weather.RawForecastEntry{
			Timestamp:    ts,
			TemperatureC: *item.Main.Temp,
			HumidityPct:  *item.Main.Humidity,
			PrecipMm:     precip,
			Condition:    weather.Condition(item.Weather[0].Main),
			WindSpeedMS:  *item.Wind.Speed,
		})
	}

	label := payload.City.Name
	if payload.City.Country != "" {
		label = fmt.Sprintf("%s, %s", payload.City.Name, payload.City.Country)
	}

	return weather.RawForecast{
		LocationLabel: label,
		Entries:       entries,
	}, nil
}

// entryTime prefers dt_txt, which is already in UTC, and falls back to dt.
func entryTime(e owmEntry) (time.Time, error) {
	if e.DtTxt != "" {
		ts, err := time.ParseInLocation(dtTxtLayout, e.DtTxt, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid dt_txt %q", e.DtTxt)
		}
		return ts, nil
	}
	if e.Dt > 0 {
		return time.Unix(e.Dt, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("missing timestamp")
}
