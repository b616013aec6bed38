// Package farm holds the farm profile, the location catalog and the
// dashboard session that ties weather resolution and soil scoring together.
package farm

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/i474232898/farmsight/internal/soil"
)

//go:embed data/farm.json
var farmJSON []byte

type Crop struct {
	ID              string  `json:"crop_id"`
	Name            string  `json:"name"`
	Variety         string  `json:"variety"`
	AreaAcres       float64 `json:"area_acres"`
	PlantingDate    string  `json:"planting_date"`
	ExpectedHarvest string  `json:"expected_harvest"`
	GrowthStage     string  `json:"growth_stage"`
	HealthScore     int     `json:"health_score"`
}

type Profile struct {
	ID       string `json:"farm_id"`
	Name     string `json:"farm_name"`
	Location struct {
		Name           string     `json:"name"`
		Coordinates    [2]float64 `json:"coordinates"`
		TotalAreaAcres float64    `json:"total_area_acres"`
		SoilType       string     `json:"soil_type"`
		WaterSource    string     `json:"water_source"`
	} `json:"location"`
	CurrentSeason string `json:"current_season"`
	Crops         []Crop `json:"crops"`
}

// Zone is a monitored field zone with its latest soil sample.
type Zone struct {
	ID     string `json:"zone_id"`
	CropID string `json:"crop_id"`
	soil.Reading
	OrganicCarbonPercent float64     `json:"organic_carbon_percent"`
	TemperatureC         float64     `json:"temperature_c"`
	Status               soil.Status `json:"status"` // as recorded by the field survey
	Recommendations      []string    `json:"recommendations"`
}

type TimelineStage struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Status          string `json:"status"`
	ProgressPercent int    `json:"progress_percent,omitempty"`
	NextActivity    string `json:"next_activity,omitempty"`
}

type Timeline struct {
	CropID            string          `json:"crop_id"`
	CropName          string          `json:"crop_name"`
	CurrentStageIndex int             `json:"current_stage_index"`
	Stages            []TimelineStage `json:"stages"`
}

// CurrentStage returns the stage the crop is in, if the index is valid.
func (t Timeline) CurrentStage() (TimelineStage, bool) {
	if t.CurrentStageIndex < 0 || t.CurrentStageIndex >= len(t.Stages) {
		return TimelineStage{}, false
	}
	return t.Stages[t.CurrentStageIndex], true
}

type MarketPrice struct {
	CropID              string  `json:"crop_id"`
	CropName            string  `json:"crop_name"`
	Variety             string  `json:"variety"`
	CurrentPriceQuintal float64 `json:"current_price_quintal"`
	Mandi               string  `json:"mandi"`
	PriceTrend          string  `json:"price_trend"`
	MSP                 float64 `json:"msp"`
}

// Dataset is the static farm data served by the dashboard.
type Dataset struct {
	Profile   Profile       `json:"profile"`
	Zones     []Zone        `json:"zones"`
	Timelines []Timeline    `json:"timelines"`
	Market    []MarketPrice `json:"market"`
}

// LoadDataset decodes the embedded farm dataset.
func LoadDataset() (Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(farmJSON, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode farm dataset: %w", err)
	}
	return ds, nil
}

// ZoneIDs lists zone identifiers in dataset order.
func (d Dataset) ZoneIDs() []string {
	ids := make([]string, 0, len(d.Zones))
	for _, z := range d.Zones {
		ids = append(ids, z.ID)
	}
	return ids
}

// Zone looks up a zone by id.
func (d Dataset) Zone(id string) (Zone, bool) {
	for _, z := range d.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// Crop looks up a crop by id.
func (d Dataset) Crop(id string) (Crop, bool) {
	for _, c := range d.Profile.Crops {
		if c.ID == id {
			return c, true
		}
	}
	return Crop{}, false
}

// ZoneReport is a zone together with its evaluated soil health.
type ZoneReport struct {
	Zone
	Report soil.Report `json:"report"`
}

// ZoneReports evaluates every zone.
func (d Dataset) ZoneReports() []ZoneReport {
	out := make([]ZoneReport, 0, len(d.Zones))
	for _, z := range d.Zones {
		out = append(out, ZoneReport{Zone: z, Report: soil.Evaluate(z.Reading)})
	}
	return out
}
