package anomaly

import (
	"strings"
	"testing"
	"time"

	"solarwatch/internal/models"
)

func at(hour int, energy float64) Reading {
	return Reading{Timestamp: time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC), EnergyKWh: energy}
}

func types(cands []Candidate) []models.AnomalyType {
	out := make([]models.AnomalyType, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Type)
	}
	return out
}

func TestTimeOfDayAt(t *testing.T) {
	tests := []struct {
		hour  int
		night bool
		peak  bool
	}{
		{0, true, false},
		{5, true, false},
		{6, false, false},
		{10, false, true},
		{14, false, true},
		{15, false, false},
		{18, false, false},
		{19, true, false},
		{23, true, false},
	}
	for _, tt := range tests {
		got := TimeOfDayAt(time.Date(2026, 1, 1, tt.hour, 30, 0, 0, time.UTC))
		if got.Hour != tt.hour || got.IsNight != tt.night || got.IsPeak != tt.peak || got.IsDay == tt.night {
			t.Fatalf("hour=%d got=%+v want night=%v peak=%v", tt.hour, got, tt.night, tt.peak)
		}
	}
}

func TestTimeOfDayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 03:00 local is 22:00 UTC the day before.
	got := TimeOfDayAt(time.Date(2026, 1, 2, 3, 0, 0, 0, loc))
	if got.Hour != 22 || !got.IsNight {
		t.Fatalf("got=%+v want hour 22 night", got)
	}
}

func TestNighttimeGeneration(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	prev := at(20, 30)
	got := e.Evaluate(at(22, 0.8), &prev)
	if len(got) != 1 {
		t.Fatalf("got=%v want one candidate", types(got))
	}
	c := got[0]
	if c.Type != models.AnomalyNighttimeGeneration || c.Severity != models.SeverityWarning {
		t.Fatalf("got=%s/%s", c.Type, c.Severity)
	}
	want := "Detected 0.8 kWh generation during night hours (22:00 UTC)."
	if c.Description != want {
		t.Fatalf("description=%q want=%q", c.Description, want)
	}
	if !c.RecordTimestamp.Equal(at(22, 0).Timestamp) {
		t.Fatalf("record timestamp=%v", c.RecordTimestamp)
	}
}

func TestNighttimeAtThresholdDoesNotFire(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	if got := e.Evaluate(at(2, 0.5), nil); len(got) != 0 {
		t.Fatalf("got=%v want none", types(got))
	}
}

func TestZeroGenerationPeak(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	// A predecessor that would otherwise satisfy the drop rule.
	prev := at(10, 40)
	got := e.Evaluate(at(12, 0), &prev)
	if len(got) != 1 {
		t.Fatalf("got=%v want exactly one", types(got))
	}
	if got[0].Type != models.AnomalyZeroGenerationPeak || got[0].Severity != models.SeverityCritical {
		t.Fatalf("got=%s/%s", got[0].Type, got[0].Severity)
	}
	want := "Zero energy generation (0 kWh) detected during peak sun hours (12:00 UTC)."
	if got[0].Description != want {
		t.Fatalf("description=%q want=%q", got[0].Description, want)
	}
}

func TestZeroOutsidePeakIsNotCritical(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	if got := e.Evaluate(at(8, 0), nil); len(got) != 0 {
		t.Fatalf("got=%v want none", types(got))
	}
}

func TestSuddenDrop(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	prev := at(8, 20)
	got := e.Evaluate(at(9, 8), &prev)
	if len(got) != 1 || got[0].Type != models.AnomalySuddenDrop || got[0].Severity != models.SeverityWarning {
		t.Fatalf("got=%v want SUDDEN_DROP", types(got))
	}
	if !strings.Contains(got[0].Description, "60%") {
		t.Fatalf("description=%q want 60%%", got[0].Description)
	}
	want := "Output dropped by 60% from previous reading (20 -> 8 kWh)."
	if got[0].Description != want {
		t.Fatalf("description=%q want=%q", got[0].Description, want)
	}
}

func TestSuddenDropNotTriggered(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	tests := []struct {
		name string
		prev *Reading
		cur  Reading
	}{
		{"ratio at 0.4", &Reading{Timestamp: at(8, 0).Timestamp, EnergyKWh: 20}, at(9, 12)},
		{"ratio exactly 0.5", &Reading{Timestamp: at(8, 0).Timestamp, EnergyKWh: 20}, at(9, 10)},
		{"previous not above 10", &Reading{Timestamp: at(8, 0).Timestamp, EnergyKWh: 10}, at(9, 1)},
		{"previous at night", &Reading{Timestamp: at(5, 0).Timestamp, EnergyKWh: 40}, at(7, 1)},
		{"no previous", nil, at(9, 0.2)},
	}
	for _, tt := range tests {
		for _, c := range e.Evaluate(tt.cur, tt.prev) {
			if c.Type == models.AnomalySuddenDrop {
				t.Fatalf("%s: unexpected SUDDEN_DROP", tt.name)
			}
		}
	}
}

func TestSuddenDropIntoNightIsNightRule(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	prev := at(18, 40)
	got := e.Evaluate(at(19, 5), &prev)
	if len(got) != 1 || got[0].Type != models.AnomalyNighttimeGeneration {
		t.Fatalf("got=%v want only NIGHTTIME_GENERATION", types(got))
	}
}

func TestFirstReadingNeverSuddenDrop(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	for _, energy := range []float64{0, 0.2, 5, 350} {
		for _, c := range e.Evaluate(at(9, energy), nil) {
			if c.Type == models.AnomalySuddenDrop {
				t.Fatalf("energy=%v: first reading flagged as SUDDEN_DROP", energy)
			}
		}
	}
}

func TestInverterClipping(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	prev := at(11, 350)
	got := e.Evaluate(at(12, 350), &prev)
	if len(got) != 1 || got[0].Type != models.AnomalyInverterClipping || got[0].Severity != models.SeverityInfo {
		t.Fatalf("got=%v want INVERTER_CLIPPING", types(got))
	}
	want := "Inverter reached maximum capacity limit (350 kWh) for consecutive periods."
	if got[0].Description != want {
		t.Fatalf("description=%q want=%q", got[0].Description, want)
	}
}

func TestInverterClippingExactEquality(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	first := at(11, 350)
	if got := e.Evaluate(first, nil); len(got) != 0 {
		t.Fatalf("first reading got=%v want none", types(got))
	}
	if got := e.Evaluate(at(12, 349.9), &first); len(got) != 0 {
		t.Fatalf("349.9 after 350 got=%v want none", types(got))
	}
	prev := at(11, 349.9)
	if got := e.Evaluate(at(12, 350), &prev); len(got) != 0 {
		t.Fatalf("350 after 349.9 got=%v want none", types(got))
	}
}

func TestInverterClippingIndependentOfExclusiveRules(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	prev := at(21, 350)
	got := e.Evaluate(at(22, 350), &prev)
	want := []models.AnomalyType{models.AnomalyNighttimeGeneration, models.AnomalyInverterClipping}
	gotTypes := types(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got=%v want=%v", gotTypes, want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("got=%v want=%v", gotTypes, want)
		}
	}
}

func TestConfiguredClippingCap(t *testing.T) {
	limits := DefaultThresholds()
	limits.ClippingCapKWh = 5
	e := NewEvaluator(limits)
	prev := at(11, 5)
	got := e.Evaluate(at(12, 5), &prev)
	if len(got) != 1 || got[0].Type != models.AnomalyInverterClipping {
		t.Fatalf("got=%v want INVERTER_CLIPPING", types(got))
	}
	if !strings.Contains(got[0].Description, "(5 kWh)") {
		t.Fatalf("description=%q", got[0].Description)
	}
}

func TestZeroThresholdsFallBackToDefaults(t *testing.T) {
	e := NewEvaluator(Thresholds{})
	if e.Limits != DefaultThresholds() {
		t.Fatalf("limits=%+v want defaults", e.Limits)
	}
}

func TestExclusiveRulesStopAtFirstMatch(t *testing.T) {
	calls := 0
	e := &Evaluator{
		Exclusive: []Rule{
			{Type: "A", Check: func(Input) (string, bool) { calls++; return "a", true }},
			{Type: "B", Check: func(Input) (string, bool) { calls++; return "b", true }},
		},
		Independent: []Rule{
			{Type: "C", Check: func(Input) (string, bool) { return "c", true }},
		},
	}
	got := e.Evaluate(at(12, 1), nil)
	if calls != 1 {
		t.Fatalf("exclusive calls=%d want=1", calls)
	}
	if len(got) != 2 || got[0].Type != "A" || got[1].Type != "C" {
		t.Fatalf("got=%v want [A C]", types(got))
	}
}
