package farm

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/i474232898/farmsight/internal/soil"
	"github.com/i474232898/farmsight/internal/weather"
)

// Alert types, in display priority order.
const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
	AlertInfo     = "info"
	AlertSuccess  = "success"
)

var alertPriority = map[string]int{
	AlertCritical: 0,
	AlertWarning:  1,
	AlertInfo:     2,
	AlertSuccess:  3,
}

const (
	lowMoisturePercent   = 40
	criticalCropHealth   = 50
	decliningCropHealth  = 70
	marketPremiumOverMSP = 1.1
)

// DashboardAlert is one entry of the combined farm alert feed.
type DashboardAlert struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Zone      string    `json:"zone"`
	Icon      string    `json:"icon"`
}

// BuildAlerts combines soil, crop, market, weather and timeline alerts,
// ordered critical first. Alerts of equal type keep their insertion order.
func BuildAlerts(ds Dataset, weatherAlerts []weather.Alert, now time.Time) []DashboardAlert {
	var alerts []DashboardAlert
	add := func(typ, msg, zone, icon string) {
		alerts = append(alerts, DashboardAlert{Type: typ, Message: msg, Timestamp: now, Zone: zone, Icon: icon})
	}

	for _, z := range ds.Zones {
		if z.Status == soil.StatusCritical {
			cropName := z.CropID
			if c, ok := ds.Crop(z.CropID); ok {
				cropName = c.Name
			}
			add(AlertCritical, fmt.Sprintf("URGENT: %s (%s) requires immediate irrigation", z.ID, cropName), z.ID, "fa-exclamation-triangle")
		}
		if z.MoisturePercent < lowMoisturePercent && z.Status != soil.StatusCritical {
			add(AlertWarning, fmt.Sprintf("Low soil moisture in %s (%g%%)", z.ID, z.MoisturePercent), z.ID, "fa-droplet")
		}
	}

	for _, c := range ds.Profile.Crops {
		switch {
		case c.HealthScore < criticalCropHealth:
			add(AlertCritical, fmt.Sprintf("%s health score critically low (%d/100)", c.Name, c.HealthScore), "Multiple", "fa-heart-crack")
		case c.HealthScore < decliningCropHealth:
			add(AlertWarning, fmt.Sprintf("Monitor %s - health score declining (%d/100)", c.Name, c.HealthScore), "Multiple", "fa-heart-pulse")
		}
	}

	for _, m := range ds.Market {
		if m.MSP > 0 && m.CurrentPriceQuintal > m.MSP*marketPremiumOverMSP {
			premium := math.Round((m.CurrentPriceQuintal/m.MSP - 1) * 100)
			add(AlertSuccess, fmt.Sprintf("Excellent %s prices: ₹%g/quintal (%g%% above MSP)", m.CropName, m.CurrentPriceQuintal, premium), "Market", "fa-sack-dollar")
		}
	}

	for _, a := range weatherAlerts {
		add(a.Severity, a.Message, strings.Join(a.AffectedZones, ", "), "fa-cloud-bolt")
	}

	for _, t := range ds.Timelines {
		if stage, ok := t.CurrentStage(); ok && stage.NextActivity != "" {
			add(AlertInfo, fmt.Sprintf("%s: %s", t.CropName, stage.NextActivity), "Farm Operations", "fa-calendar-check")
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return priorityOf(alerts[i].Type) < priorityOf(alerts[j].Type)
	})
	return alerts
}

func priorityOf(typ string) int {
	if p, ok := alertPriority[typ]; ok {
		return p
	}
	return len(alertPriority)
}
