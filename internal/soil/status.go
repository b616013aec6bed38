package soil

// MetricStatus is a per-metric badge: a Status plus its display label.
type MetricStatus struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
}

// MoistureStatus classifies a moisture percentage.
func MoistureStatus(percent float64) MetricStatus {
	switch {
	case percent < 30:
		return MetricStatus{StatusCritical, "Critical - Irrigate"}
	case percent < 50:
		return MetricStatus{StatusMonitor, "Monitor"}
	case percent <= 80:
		return MetricStatus{StatusOptimal, "Optimal"}
	default:
		return MetricStatus{StatusMonitor, "High"}
	}
}

// PHStatus classifies a pH level.
func PHStatus(ph float64) MetricStatus {
	switch {
	case ph >= 6.5 && ph <= 7.5:
		return MetricStatus{StatusOptimal, "Optimal"}
	case ph >= 6.0 && ph <= 8.0:
		return MetricStatus{StatusMonitor, "Monitor"}
	default:
		return MetricStatus{StatusCritical, "Action Needed"}
	}
}

// HealthStatus classifies an aggregate health score.
func HealthStatus(score int) MetricStatus {
	switch {
	case score >= 70:
		return MetricStatus{StatusOptimal, "Excellent"}
	case score >= 50:
		return MetricStatus{StatusMonitor, "Good"}
	default:
		return MetricStatus{StatusCritical, "Poor"}
	}
}

// Report bundles everything the dashboard shows for one reading.
type Report struct {
	Health    HealthScore  `json:"health"`
	Breakdown Breakdown    `json:"breakdown"`
	Moisture  MetricStatus `json:"moisture"`
	PH        MetricStatus `json:"ph"`
	Overall   MetricStatus `json:"overall"`
}

// Evaluate scores r and attaches the per-metric statuses.
func Evaluate(r Reading) Report {
	health := Score(r)
	return Report{
		Health:    health,
		Breakdown: Contributions(r),
		Moisture:  MoistureStatus(r.MoisturePercent),
		PH:        PHStatus(r.PHLevel),
		Overall:   HealthStatus(health.Score),
	}
}
