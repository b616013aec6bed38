package soil

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		reading    Reading
		wantScore  int
		wantStatus Status
	}{
		{"ideal", Reading{50, 7.0, 150, 25, 300}, 100, StatusOptimal},
		{"depleted", Reading{10, 5.0, 0, 0, 0}, 15, StatusCritical},
		// 20 + 15 + 0.5*15*3
		{"half nutrients", Reading{45, 6.2, 75, 12.5, 150}, 58, StatusMonitor},
		{"surplus nutrients capped", Reading{60, 7.0, 1000, 1000, 1000}, 100, StatusOptimal},
		{"zone Z3", Reading{32, 8.1, 89, 45, 310}, 54, StatusMonitor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.reading)
			if got.Score != tt.wantScore || got.Status != tt.wantStatus {
				t.Fatalf("expected %d/%s, got %d/%s", tt.wantScore, tt.wantStatus, got.Score, got.Status)
			}
		})
	}
}

func TestContributionBands(t *testing.T) {
	moisture := []struct {
		v    float64
		want float64
	}{
		{39.9, 10}, {40, 20}, {49.9, 20}, {50, 30}, {80, 30}, {80.1, 20}, {85, 20}, {85.1, 10},
	}
	for _, tt := range moisture {
		if got := Contributions(Reading{MoisturePercent: tt.v, PHLevel: 7}).Moisture; got != tt.want {
			t.Errorf("moisture %v: expected %v, got %v", tt.v, tt.want, got)
		}
	}

	ph := []struct {
		v    float64
		want float64
	}{
		{5.9, 5}, {6.0, 15}, {6.4, 15}, {6.5, 25}, {7.5, 25}, {7.6, 15}, {8.0, 15}, {8.1, 5},
	}
	for _, tt := range ph {
		if got := Contributions(Reading{MoisturePercent: 60, PHLevel: tt.v}).PH; got != tt.want {
			t.Errorf("ph %v: expected %v, got %v", tt.v, tt.want, got)
		}
	}
}

func TestScoreClampsInputs(t *testing.T) {
	negative := Contributions(Reading{MoisturePercent: -20, PHLevel: -1, NitrogenMgKg: -50, PhosphorusMgKg: -1, PotassiumMgKg: -1})
	if negative.Nitrogen != 0 || negative.Phosphorus != 0 || negative.Potassium != 0 {
		t.Fatalf("negative nutrients should contribute 0, got %+v", negative)
	}
	if negative.Moisture != 10 || negative.PH != 5 {
		t.Fatalf("out-of-range moisture/ph should fall to the lowest band, got %+v", negative)
	}

	high := Score(Reading{MoisturePercent: 250, PHLevel: 20, NitrogenMgKg: 150, PhosphorusMgKg: 25, PotassiumMgKg: 300})
	if high.Score != 60 {
		t.Fatalf("expected 10+5+45=60, got %d", high.Score)
	}
}

func TestScoreStatusThresholds(t *testing.T) {
	tests := []struct {
		score int
		want  Status
		label string
	}{
		{100, StatusOptimal, "Excellent"},
		{70, StatusOptimal, "Excellent"},
		{69, StatusMonitor, "Good"},
		{50, StatusMonitor, "Good"},
		{49, StatusCritical, "Poor"},
		{0, StatusCritical, "Poor"},
	}
	for _, tt := range tests {
		got := HealthStatus(tt.score)
		if got.Status != tt.want || got.Label != tt.label {
			t.Errorf("score %d: expected %s/%s, got %s/%s", tt.score, tt.want, tt.label, got.Status, got.Label)
		}
	}
}

func TestMetricStatuses(t *testing.T) {
	moisture := []struct {
		v     float64
		label string
	}{
		{29, "Critical - Irrigate"}, {30, "Monitor"}, {49, "Monitor"}, {50, "Optimal"}, {80, "Optimal"}, {81, "High"},
	}
	for _, tt := range moisture {
		if got := MoistureStatus(tt.v).Label; got != tt.label {
			t.Errorf("moisture %v: expected %q, got %q", tt.v, tt.label, got)
		}
	}

	if got := PHStatus(7.0); got.Status != StatusOptimal {
		t.Errorf("ph 7.0: expected optimal, got %s", got.Status)
	}
	if got := PHStatus(7.8); got.Status != StatusMonitor {
		t.Errorf("ph 7.8: expected monitor, got %s", got.Status)
	}
	if got := PHStatus(8.5); got.Status != StatusCritical || got.Label != "Action Needed" {
		t.Errorf("ph 8.5: expected critical Action Needed, got %+v", got)
	}
}

func TestEvaluate(t *testing.T) {
	r := Evaluate(Reading{68, 7.2, 145, 22, 285})
	if r.Health.Score != 97 || r.Overall.Label != "Excellent" {
		t.Fatalf("expected 97/Excellent, got %d/%s", r.Health.Score, r.Overall.Label)
	}
	if r.Moisture.Status != StatusOptimal || r.PH.Status != StatusOptimal {
		t.Fatalf("unexpected metric statuses %+v", r)
	}
	if got := int(r.Breakdown.Total() + 0.5); got != r.Health.Score {
		t.Fatalf("breakdown total %v does not match score %d", r.Breakdown.Total(), r.Health.Score)
	}
}
