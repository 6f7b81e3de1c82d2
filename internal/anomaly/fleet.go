package anomaly

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solarwatch/internal/models"
)

// UnitSource lists every known unit. No status filter is applied.
type UnitSource interface {
	ListSolarUnits(ctx context.Context) ([]models.SolarUnit, error)
}

// UnitScanner is satisfied by *Scanner.
type UnitScanner interface {
	ScanUnit(ctx context.Context, unit models.SolarUnit) (ScanResult, error)
}

// UnitOutcome is the result of scanning one unit within a sweep.
type UnitOutcome struct {
	SolarUnitID  uint64     `json:"solar_unit_id"`
	SerialNumber string     `json:"serial_number"`
	Result       ScanResult `json:"result"`
	Err          error      `json:"-"`
	Error        string     `json:"error,omitempty"`
	Duration     string     `json:"duration"`
}

func (o UnitOutcome) OK() bool {
	return o.Err == nil && o.Error == ""
}

// SweepReport summarizes one fleet pass.
type SweepReport struct {
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Units      int           `json:"units"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Readings   int           `json:"readings"`
	Candidates int           `json:"candidates"`
	Inserted   int64         `json:"inserted"`
	Duplicates int64         `json:"duplicates"`
	Outcomes   []UnitOutcome `json:"outcomes"`
}

func (r *SweepReport) FailedOutcomes() []UnitOutcome {
	if r == nil {
		return nil
	}
	var out []UnitOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Reporter receives the report at the end of every sweep.
type Reporter interface {
	Report(ctx context.Context, report *SweepReport) error
}

type FleetRunner struct {
	Units    UnitSource
	Scanner  UnitScanner
	Reporter Reporter
	Logger   *zap.Logger
	// Workers > 1 scans units concurrently; readings within a unit stay sequential.
	Workers int
	Now     func() time.Time
}

// Run sweeps the whole fleet. Only a failure to list units is returned as an
// error; per-unit failures are recorded in the report.
func (f *FleetRunner) Run(ctx context.Context, trigger string) (*SweepReport, error) {
	if f == nil || f.Units == nil || f.Scanner == nil {
		return nil, fmt.Errorf("fleet runner is not configured")
	}
	started := f.now()
	units, err := f.Units.ListSolarUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list solar units: %w", err)
	}

	outcomes := make([]UnitOutcome, len(units))
	if f.Workers > 1 && len(units) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(f.Workers)
		for i := range units {
			g.Go(func() error {
				outcomes[i] = f.scanOne(gctx, units[i])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range units {
			outcomes[i] = f.scanOne(ctx, units[i])
		}
	}

	report := &SweepReport{
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: f.now(),
		Units:      len(units),
		Outcomes:   outcomes,
	}
	for _, o := range outcomes {
		if o.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Readings += o.Result.Readings
		report.Candidates += o.Result.Candidates
		report.Inserted += o.Result.Inserted
		report.Duplicates += o.Result.Duplicates
	}

	if f.Logger != nil {
		f.Logger.Info("anomaly sweep complete",
			zap.String("trigger", trigger),
			zap.Int("units", report.Units),
			zap.Int("failed", report.Failed),
			zap.Int("candidates", report.Candidates),
			zap.Int64("inserted", report.Inserted),
			zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
		)
	}
	if f.Reporter != nil {
		if err := f.Reporter.Report(ctx, report); err != nil && f.Logger != nil {
			f.Logger.Warn("anomaly sweep report failed", zap.Error(err))
		}
	}
	return report, nil
}

func (f *FleetRunner) scanOne(ctx context.Context, unit models.SolarUnit) (out UnitOutcome) {
	out.SolarUnitID = unit.ID
	out.SerialNumber = unit.SerialNumber
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("panic: %v", r)
		}
		out.Duration = time.Since(start).String()
		if out.Err != nil {
			out.Error = out.Err.Error()
			if f.Logger != nil {
				f.Logger.Warn("anomaly scan failed",
					zap.Uint64("unit_id", unit.ID),
					zap.String("serial_number", unit.SerialNumber),
					zap.Error(out.Err),
				)
			}
		}
	}()
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = f.Scanner.ScanUnit(ctx, unit)
	return out
}

func (f *FleetRunner) now() time.Time {
	if f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}
