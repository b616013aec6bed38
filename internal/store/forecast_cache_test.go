package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/farmsight/internal/weather"
)

func sampleEntry() weather.CacheEntry {
	stored := time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC)
	return weather.CacheEntry{
		StoredAt: stored,
		Payload: weather.ForecastResult{
			Location:    "Pune, IN",
			GeneratedAt: stored,
			Forecast: []weather.DailyForecast{
				{Date: "2024-03-20", Day: "Wed", TempMin: 20, TempMax: 33, Condition: weather.ConditionClear},
			},
			Alerts: []weather.Alert{},
			Source: weather.SourceAPI,
		},
	}
}

func TestForecastCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewForecastCache(NewMemoryKV(0))

	if _, found, err := c.Get(ctx, "farmsight:weather"); found || err != nil {
		t.Fatalf("expected a clean miss, got found=%v err=%v", found, err)
	}

	want := sampleEntry()
	if err := c.Set(ctx, "farmsight:weather", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, found, err := c.Get(ctx, "farmsight:weather")
	if err != nil || !found {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}
	if !got.StoredAt.Equal(want.StoredAt) || got.Payload.Location != "Pune, IN" || len(got.Payload.Forecast) != 1 {
		t.Fatalf("unexpected entry %+v", got)
	}

	if err := c.Delete(ctx, "farmsight:weather"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := c.Get(ctx, "farmsight:weather"); found {
		t.Fatal("expected entry to be deleted")
	}
}

func TestForecastCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(0)
	_ = kv.Set(ctx, "farmsight:weather", []byte("not json"))

	_, found, err := NewForecastCache(kv).Get(ctx, "farmsight:weather")
	if found || !errors.Is(err, weather.ErrCache) {
		t.Fatalf("expected cache error, got found=%v err=%v", found, err)
	}
}

func TestForecastCacheOnRedis(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedisKV(t)
	c := NewForecastCache(kv)

	if err := c.Set(ctx, "farmsight:weather", sampleEntry()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found, err := c.Get(ctx, "farmsight:weather"); !found || err != nil {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}

	mr.Close()
	if _, _, err := c.Get(ctx, "farmsight:weather"); !errors.Is(err, weather.ErrCache) {
		t.Fatalf("expected cache error with redis down, got %v", err)
	}
}
