// Package anomaly scans the energy readings of solar units and classifies
// abnormal output into anomaly facts.
package anomaly

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"solarwatch/internal/models"
)

// Reading is one energy measurement as seen by the evaluator.
type Reading struct {
	Timestamp time.Time
	EnergyKWh float64
}

// Thresholds are the limits the rules compare against.
type Thresholds struct {
	NightEnergyKWh     float64
	PeakZeroEnergyKWh  float64
	DropRatio          float64
	DropMinPreviousKWh float64
	// ClippingCapKWh is compared with exact equality.
	ClippingCapKWh float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NightEnergyKWh:     0.5,
		PeakZeroEnergyKWh:  0.1,
		DropRatio:          0.5,
		DropMinPreviousKWh: 10,
		ClippingCapKWh:     350,
	}
}

// withDefaults fills unset limits so a zero Thresholds behaves like DefaultThresholds.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.NightEnergyKWh <= 0 {
		t.NightEnergyKWh = d.NightEnergyKWh
	}
	if t.PeakZeroEnergyKWh <= 0 {
		t.PeakZeroEnergyKWh = d.PeakZeroEnergyKWh
	}
	if t.DropRatio <= 0 {
		t.DropRatio = d.DropRatio
	}
	if t.DropMinPreviousKWh <= 0 {
		t.DropMinPreviousKWh = d.DropMinPreviousKWh
	}
	if t.ClippingCapKWh <= 0 {
		t.ClippingCapKWh = d.ClippingCapKWh
	}
	return t
}

// TimeOfDay is the UTC hour context of a reading.
type TimeOfDay struct {
	Hour    int
	IsNight bool
	IsPeak  bool
	IsDay   bool
}

func TimeOfDayAt(ts time.Time) TimeOfDay {
	hour := ts.UTC().Hour()
	night := hour < 6 || hour > 18
	return TimeOfDay{
		Hour:    hour,
		IsNight: night,
		IsPeak:  hour >= 10 && hour <= 14,
		IsDay:   !night,
	}
}

// Input is everything a rule may look at for one reading.
type Input struct {
	Current  Reading
	Previous *Reading
	Clock    TimeOfDay
	Limits   Thresholds
}

// Rule classifies a reading. Check returns the description and true when the rule fires.
type Rule struct {
	Type     models.AnomalyType
	Severity models.AnomalySeverity
	Check    func(in Input) (string, bool)
}

// Candidate is an anomaly produced by a rule, not yet persisted.
type Candidate struct {
	Type            models.AnomalyType
	Severity        models.AnomalySeverity
	Description     string
	RecordTimestamp time.Time
}

// Evaluator runs Exclusive rules in order until the first match, then every
// Independent rule regardless of that outcome.
type Evaluator struct {
	Exclusive   []Rule
	Independent []Rule
	Limits      Thresholds
}

func NewEvaluator(limits Thresholds) *Evaluator {
	return &Evaluator{
		Exclusive: []Rule{
			NighttimeGenerationRule(),
			ZeroGenerationPeakRule(),
			SuddenDropRule(),
		},
		Independent: []Rule{
			InverterClippingRule(),
		},
		Limits: limits.withDefaults(),
	}
}

// Evaluate is pure: the same inputs always yield the same candidates.
func (e *Evaluator) Evaluate(cur Reading, prev *Reading) []Candidate {
	if e == nil {
		return nil
	}
	in := Input{
		Current:  cur,
		Previous: prev,
		Clock:    TimeOfDayAt(cur.Timestamp),
		Limits:   e.Limits.withDefaults(),
	}
	var out []Candidate
	for _, rule := range e.Exclusive {
		if desc, ok := rule.Check(in); ok {
			out = append(out, rule.candidate(desc, cur))
			break
		}
	}
	for _, rule := range e.Independent {
		if desc, ok := rule.Check(in); ok {
			out = append(out, rule.candidate(desc, cur))
		}
	}
	return out
}

func (r Rule) candidate(desc string, cur Reading) Candidate {
	return Candidate{
		Type:            r.Type,
		Severity:        r.Severity,
		Description:     desc,
		RecordTimestamp: cur.Timestamp,
	}
}

func NighttimeGenerationRule() Rule {
	return Rule{
		Type:     models.AnomalyNighttimeGeneration,
		Severity: models.SeverityWarning,
		Check: func(in Input) (string, bool) {
			if !in.Clock.IsNight || in.Current.EnergyKWh <= in.Limits.NightEnergyKWh {
				return "", false
			}
			return fmt.Sprintf("Detected %s kWh generation during night hours (%d:00 UTC).",
				formatKWh(in.Current.EnergyKWh), in.Clock.Hour), true
		},
	}
}

func ZeroGenerationPeakRule() Rule {
	return Rule{
		Type:     models.AnomalyZeroGenerationPeak,
		Severity: models.SeverityCritical,
		Check: func(in Input) (string, bool) {
			if !in.Clock.IsPeak || in.Current.EnergyKWh >= in.Limits.PeakZeroEnergyKWh {
				return "", false
			}
			return fmt.Sprintf("Zero energy generation (%s kWh) detected during peak sun hours (%d:00 UTC).",
				formatKWh(in.Current.EnergyKWh), in.Clock.Hour), true
		},
	}
}

// SuddenDropRule needs a daytime predecessor above DropMinPreviousKWh.
func SuddenDropRule() Rule {
	return Rule{
		Type:     models.AnomalySuddenDrop,
		Severity: models.SeverityWarning,
		Check: func(in Input) (string, bool) {
			if in.Previous == nil || !in.Clock.IsDay {
				return "", false
			}
			prev := in.Previous.EnergyKWh
			if !TimeOfDayAt(in.Previous.Timestamp).IsDay || prev <= in.Limits.DropMinPreviousKWh {
				return "", false
			}
			ratio := (prev - in.Current.EnergyKWh) / prev
			if ratio <= in.Limits.DropRatio {
				return "", false
			}
			return fmt.Sprintf("Output dropped by %d%% from previous reading (%s -> %s kWh).",
				int(math.Round(ratio*100)), formatKWh(prev), formatKWh(in.Current.EnergyKWh)), true
		},
	}
}

func InverterClippingRule() Rule {
	return Rule{
		Type:     models.AnomalyInverterClipping,
		Severity: models.SeverityInfo,
		Check: func(in Input) (string, bool) {
			capKWh := in.Limits.ClippingCapKWh
			if in.Previous == nil || in.Current.EnergyKWh != capKWh || in.Previous.EnergyKWh != capKWh {
				return "", false
			}
			return fmt.Sprintf("Inverter reached maximum capacity limit (%s kWh) for consecutive periods.",
				formatKWh(capKWh)), true
		},
	}
}

func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
