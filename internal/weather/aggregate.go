package weather

import (
	"fmt"
	"sort"
	"time"

	"github.com/i474232898/farmsight/internal/common"
)

// MaxForecastDays caps the number of daily entries in a ForecastResult.
const MaxForecastDays = 7

const (
	heavyRainAlertMm   = 15
	highTempAlertC     = 35
	pauseIrrigationMm  = 10
	reduceIrrigationMm = 5
	msToKmh            = 3.6
	defaultIcon        = "wi-day-cloudy"
	dateLayout         = "2006-01-02"
)

var conditionIcons = map[Condition]string{
	ConditionClear:        "wi-day-sunny",
	ConditionClouds:       "wi-cloudy",
	ConditionRain:         "wi-rain",
	ConditionDrizzle:      "wi-sprinkle",
	ConditionThunderstorm: "wi-thunderstorm",
	ConditionSnow:         "wi-snow",
	ConditionMist:         "wi-fog",
	ConditionFog:          "wi-fog",
}

// IconFor returns the weather-icon class for a condition label.
func IconFor(c Condition) string {
	if icon, ok := conditionIcons[c]; ok {
		return icon
	}
	return defaultIcon
}

// Advisory returns the farm advisory for a day. Rules are checked in order.
func Advisory(c Condition, rainfallMm float64) string {
	switch {
	case rainfallMm > pauseIrrigationMm:
		return "Pause irrigation - significant rainfall expected"
	case rainfallMm > reduceIrrigationMm:
		return "Reduce irrigation - rainfall expected"
	case c == ConditionClear:
		return "Good weather for field operations"
	case c == ConditionRain:
		return "Avoid field work - rainy conditions"
	default:
		return "Continue regular farm operations"
	}
}

type dayBucket struct {
	temps      []float64
	humidity   []float64
	wind       []float64
	rainfall   float64
	conditions []Condition
}

// AggregateDaily groups 3-hour entries by UTC calendar date and reduces each
// group to a DailyForecast. At most MaxForecastDays days are returned,
// ordered by date ascending.
func AggregateDaily(entries []RawForecastEntry) []DailyForecast {
	buckets := make(map[string]*dayBucket)
	for _, e := range entries {
		k := e.Timestamp.UTC().Format(dateLayout)
		b, ok := buckets[k]
		if !ok {
			b = &dayBucket{}
			buckets[k] = b
		}
		b.temps = append(b.temps, e.TemperatureC)
		b.humidity = append(b.humidity, e.HumidityPct)
		b.wind = append(b.wind, e.WindSpeedMS*msToKmh)
		b.rainfall += e.PrecipMm
		b.conditions = append(b.conditions, e.Condition)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > MaxForecastDays {
		keys = keys[:MaxForecastDays]
	}

	days := make([]DailyForecast, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		cond := mostCommonCondition(b.conditions)
		rainfall := int(common.RoundHalfUp(b.rainfall))
		days = append(days, DailyForecast{
			Date:       k,
			Day:        dayName(k),
			TempMin:    int(common.RoundHalfUp(minOf(b.temps))),
			TempMax:    int(common.RoundHalfUp(maxOf(b.temps))),
			Humidity:   int(common.RoundHalfUp(mean(b.humidity))),
			RainfallMm: rainfall,
			Condition:  cond,
			Icon:       IconFor(cond),
			WindSpeed:  int(common.RoundHalfUp(mean(b.wind))),
			Advisory:   Advisory(cond, float64(rainfall)),
		})
	}
	return days
}

// GenerateAlerts emits a warning per day of heavy rainfall and per day of
// high temperature. Every alert lists all zones.
func GenerateAlerts(days []DailyForecast, zones []string) []Alert {
	alerts := make([]Alert, 0)
	affected := func() []string {
		return append(make([]string, 0, len(zones)), zones...)
	}
	for _, d := range days {
		if d.RainfallMm > heavyRainAlertMm {
			alerts = append(alerts, Alert{
				Severity:      "warning",
				Message:       fmt.Sprintf("Heavy rainfall expected on %s (%dmm)", d.Day, d.RainfallMm),
				AffectedZones: affected(),
			})
		}
		if d.TempMax > highTempAlertC {
			alerts = append(alerts, Alert{
				Severity:      "warning",
				Message:       fmt.Sprintf("High temperature alert for %s (%d°C)", d.Day, d.TempMax),
				AffectedZones: affected(),
			})
		}
	}
	return alerts
}

// mostCommonCondition picks the label with the highest count; ties go to
// the label seen first.
func mostCommonCondition(conds []Condition) Condition {
	counts := make(map[Condition]int, len(conds))
	order := make([]Condition, 0, len(conds))
	for _, c := range conds {
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		counts[c]++
	}

	var best Condition
	bestCount := 0
	for _, c := range order {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}

func dayName(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
