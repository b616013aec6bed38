// Package soil derives health indicators from soil sensor readings.
package soil

import (
	"math"

	"github.com/i474232898/farmsight/internal/common"
)

// Status is the traffic-light classification used across the dashboard.
type Status string

const (
	StatusOptimal  Status = "optimal"
	StatusMonitor  Status = "monitor"
	StatusCritical Status = "critical"
)

// Reading is one zone's soil sample.
type Reading struct {
	MoisturePercent float64 `json:"moisture_percent"`
	PHLevel         float64 `json:"ph_level"`
	NitrogenMgKg    float64 `json:"nitrogen_mg_kg"`
	PhosphorusMgKg  float64 `json:"phosphorus_mg_kg"`
	PotassiumMgKg   float64 `json:"potassium_mg_kg"`
}

// HealthScore is the aggregate 0-100 indicator for a reading.
type HealthScore struct {
	Score  int    `json:"score"`
	Status Status `json:"status"`
}

// Breakdown lists the unrounded contribution of each metric to the score.
type Breakdown struct {
	Moisture   float64 `json:"moisture"`
	PH         float64 `json:"ph"`
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
}

// Total is the unrounded sum of all contributions.
func (b Breakdown) Total() float64 {
	return b.Moisture + b.PH + b.Nitrogen + b.Phosphorus + b.Potassium
}

const (
	nutrientCap          = 15.0
	nitrogenTargetMgKg   = 150.0
	phosphorusTargetMgKg = 25.0
	potassiumTargetMgKg  = 300.0
)

// Score computes the health score of r. Out-of-range inputs are clamped.
func Score(r Reading) HealthScore {
	score := int(common.RoundHalfUp(Contributions(r).Total()))
	return HealthScore{
		Score:  score,
		Status: HealthStatus(score).Status,
	}
}

// Contributions evaluates the weighted bands for each metric. Bands are
// checked in order, so the narrower band wins on shared boundaries.
func Contributions(r Reading) Breakdown {
	r = clamp(r)

	var b Breakdown
	switch m := r.MoisturePercent; {
	case m >= 50 && m <= 80:
		b.Moisture = 30
	case m >= 40 && m <= 85:
		b.Moisture = 20
	default:
		b.Moisture = 10
	}

	switch ph := r.PHLevel; {
	case ph >= 6.5 && ph <= 7.5:
		b.PH = 25
	case ph >= 6.0 && ph <= 8.0:
		b.PH = 15
	default:
		b.PH = 5
	}

	b.Nitrogen = nutrientScore(r.NitrogenMgKg, nitrogenTargetMgKg)
	b.Phosphorus = nutrientScore(r.PhosphorusMgKg, phosphorusTargetMgKg)
	b.Potassium = nutrientScore(r.PotassiumMgKg, potassiumTargetMgKg)
	return b
}

func nutrientScore(value, target float64) float64 {
	return math.Min(value/target*nutrientCap, nutrientCap)
}

func clamp(r Reading) Reading {
	r.MoisturePercent = common.Clamp(r.MoisturePercent, 0, 100)
	r.PHLevel = common.Clamp(r.PHLevel, 0, 14)
	r.NitrogenMgKg = math.Max(r.NitrogenMgKg, 0)
	r.PhosphorusMgKg = math.Max(r.PhosphorusMgKg, 0)
	r.PotassiumMgKg = math.Max(r.PotassiumMgKg, 0)
	return r
}
