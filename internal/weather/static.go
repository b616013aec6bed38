package weather

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/static_forecast.json
var staticForecastJSON []byte

var staticForecast = mustLoadStatic(staticForecastJSON)

func mustLoadStatic(raw []byte) ForecastResult {
	var r ForecastResult
	if err := json.Unmarshal(raw, &r); err != nil {
		panic(fmt.Sprintf("weather: invalid embedded static forecast: %v", err))
	}
	if len(r.Forecast) == 0 {
		panic("weather: embedded static forecast has no days")
	}
	r.Source = SourceStatic
	return r
}

// StaticForecast returns a fresh copy of the embedded offline dataset.
func StaticForecast() ForecastResult {
	return staticForecast.clone()
}
