package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/farmsight/internal/weather"
)

const forecastBody = `{
  "list": [
    {"dt": 1710892800, "dt_txt": "2024-03-20 00:00:00", "main": {"temp": 21.4, "humidity": 55}, "weather": [{"main": "Clear"}], "wind": {"speed": 3.2}},
    {"dt": 1710903600, "dt_txt": "2024-03-20 03:00:00", "main": {"temp": 24.0, "humidity": 50}, "weather": [{"main": "Rain"}], "wind": {"speed": 4.0}, "rain": {"3h": 1.5}},
    {"dt": 1710979200, "main": {"temp": 0, "humidity": 0}, "weather": [{"main": "Clouds"}], "wind": {"speed": 0}}
  ],
  "city": {"name": "Nashik", "country": "IN"}
}`

var nashik = weather.Coordinate{Lat: 20.011, Lon: 73.7903}

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "test-key" || q.Get("units") != "metric" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if q.Get("lat") != "20.011" || q.Get("lon") != "73.7903" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenWeatherForecastParsesEntries(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, forecastBody)
	p := NewOpenWeatherForecast(srv.Client(), "test-key", srv.URL, nil)

	raw, err := p.FetchForecast(context.Background(), nashik)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw.LocationLabel != "Nashik, IN" {
		t.Fatalf("unexpected label %q", raw.LocationLabel)
	}
	if len(raw.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(raw.Entries))
	}

	first := raw.Entries[0]
	if !first.Timestamp.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %s", first.Timestamp)
	}
	if first.TemperatureC != 21.4 || first.HumidityPct != 55 || first.WindSpeedMS != 3.2 {
		t.Fatalf("unexpected entry values %+v", first)
	}
	if first.PrecipMm != 0 {
		t.Fatalf("missing rain should read as 0, got %v", first.PrecipMm)
	}
	if raw.Entries[1].PrecipMm != 1.5 || raw.Entries[1].Condition != weather.ConditionRain {
		t.Fatalf("unexpected rain entry %+v", raw.Entries[1])
	}
	// No dt_txt: fall back to dt.
	if !raw.Entries[2].Timestamp.Equal(time.Unix(1710979200, 0)) {
		t.Fatalf("unexpected dt fallback timestamp %s", raw.Entries[2].Timestamp)
	}
	if raw.Entries[2].TemperatureC != 0 {
		t.Fatalf("explicit zero temperature should be kept, got %v", raw.Entries[2].TemperatureC)
	}
}

func TestOpenWeatherForecastErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{}`, weather.ErrProtocol},
		{"not found", http.StatusNotFound, `{"cod":"404"}`, weather.ErrProtocol},
		{"rate limited", http.StatusTooManyRequests, `{}`, weather.ErrProtocol},
		{"malformed json", http.StatusOK, `{"list": [`, weather.ErrProtocol},
		{"empty list", http.StatusOK, `{"list": [], "city": {"name": "Nashik"}}`, weather.ErrProtocol},
		{"missing city", http.StatusOK, `{"list": [{"dt_txt": "2024-03-20 00:00:00", "main": {"temp": 1, "humidity": 2}, "weather": [{"main": "Clear"}], "wind": {"speed": 1}}]}`, weather.ErrProtocol},
		{"missing temp", http.StatusOK, `{"list": [{"dt_txt": "2024-03-20 00:00:00", "main": {"humidity": 2}, "weather": [{"main": "Clear"}], "wind": {"speed": 1}}], "city": {"name": "Nashik"}}`, weather.ErrProtocol},
		{"missing weather", http.StatusOK, `{"list": [{"dt_txt": "2024-03-20 00:00:00", "main": {"temp": 1, "humidity": 2}, "weather": [], "wind": {"speed": 1}}], "city": {"name": "Nashik"}}`, weather.ErrProtocol},
		{"bad dt_txt", http.StatusOK, `{"list": [{"dt_txt": "yesterday", "main": {"temp": 1, "humidity": 2}, "weather": [{"main": "Clear"}], "wind": {"speed": 1}}], "city": {"name": "Nashik"}}`, weather.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			p := NewOpenWeatherForecast(srv.Client(), "test-key", srv.URL, nil)

			_, err := p.FetchForecast(context.Background(), nashik)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOpenWeatherForecastMissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewOpenWeatherForecast(srv.Client(), "", srv.URL, nil)
	_, err := p.FetchForecast(context.Background(), nashik)
	if !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if called {
		t.Fatal("no request should be sent without an api key")
	}
}

func TestOpenWeatherForecastUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := NewOpenWeatherForecast(&http.Client{Timeout: time.Second}, "test-key", url, nil)
	_, err := p.FetchForecast(context.Background(), nashik)
	if !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestOpenWeatherForecastRateLimiterDeniesImmediately(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, forecastBody)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	p := NewOpenWeatherForecast(srv.Client(), "test-key", srv.URL, limiter)

	if _, err := p.FetchForecast(context.Background(), nashik); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	start := time.Now()
	_, err := p.FetchForecast(context.Background(), nashik)
	if !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected throttled call to fail with network error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("throttled call should not wait for a token")
	}
}

func TestOpenWeatherForecastNoClient(t *testing.T) {
	p := NewOpenWeatherForecast(nil, "test-key", "", nil)
	_, err := p.FetchForecast(context.Background(), nashik)
	if !errors.Is(err, weather.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
