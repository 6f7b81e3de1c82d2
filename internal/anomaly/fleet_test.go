package anomaly

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"solarwatch/internal/models"
)

type stubUnits struct {
	units []models.SolarUnit
	err   error
}

func (s *stubUnits) ListSolarUnits(ctx context.Context) ([]models.SolarUnit, error) {
	return s.units, s.err
}

type captureReporter struct {
	mu      sync.Mutex
	reports []*SweepReport
	err     error
}

func (r *captureReporter) Report(ctx context.Context, report *SweepReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

// lockedSink serialises a stubSink for concurrent sweeps.
type lockedSink struct {
	mu   sync.Mutex
	sink stubSink
}

func (l *lockedSink) InsertAnomalies(ctx context.Context, items []models.Anomaly) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sink.InsertAnomalies(ctx, items)
}

func fleetFixture() (*stubUnits, *stubRecords) {
	units := &stubUnits{units: []models.SolarUnit{
		{ID: 1, SerialNumber: "SU-1"},
		{ID: 2, SerialNumber: "SU-2"},
		{ID: 3, SerialNumber: "SU-3"},
	}}
	records := &stubRecords{
		byUnit: map[uint64][]models.EnergyGenerationRecord{
			1: {rec(1, 11, 350), rec(1, 12, 350)},
			3: {rec(3, 8, 20), rec(3, 9, 8)},
		},
		errs: map[uint64]error{2: errors.New("read timeout")},
	}
	return units, records
}

func TestFleetRunnerIsolatesUnitFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	units, records := fleetFixture()
	sink := &stubSink{}
	reporter := &captureReporter{}
	f := &FleetRunner{
		Units:    units,
		Scanner:  &Scanner{Records: records, Anomalies: sink},
		Reporter: reporter,
		Logger:   zap.New(core),
	}
	report, err := f.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Units != 3 || report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("report=%+v", report)
	}
	if report.Inserted != 2 {
		t.Fatalf("inserted=%d want=2", report.Inserted)
	}
	failed := report.FailedOutcomes()
	if len(failed) != 1 || failed[0].SolarUnitID != 2 || failed[0].Error == "" {
		t.Fatalf("failed=%+v", failed)
	}
	if report.Outcomes[0].SolarUnitID != 1 || report.Outcomes[2].SolarUnitID != 3 {
		t.Fatalf("outcomes out of unit order: %+v", report.Outcomes)
	}
	if logs.FilterMessage("anomaly scan failed").Len() != 1 {
		t.Fatalf("expected one failure log line")
	}
	if len(reporter.reports) != 1 || reporter.reports[0] != report {
		t.Fatalf("reporter did not receive the report")
	}
	if report.Trigger != "test" {
		t.Fatalf("trigger=%q", report.Trigger)
	}
}

func TestFleetRunnerListUnitsFailureIsFatal(t *testing.T) {
	boom := errors.New("db down")
	reporter := &captureReporter{}
	f := &FleetRunner{
		Units:    &stubUnits{err: boom},
		Scanner:  &Scanner{Records: &stubRecords{}, Anomalies: &stubSink{}},
		Reporter: reporter,
	}
	report, err := f.Run(context.Background(), "test")
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want=%v", err, boom)
	}
	if report != nil {
		t.Fatalf("expected nil report")
	}
	if len(reporter.reports) != 0 {
		t.Fatalf("reporter should not be called")
	}
}

func TestFleetRunnerReporterErrorDoesNotFailSweep(t *testing.T) {
	units, records := fleetFixture()
	f := &FleetRunner{
		Units:    units,
		Scanner:  &Scanner{Records: records, Anomalies: &stubSink{}},
		Reporter: &captureReporter{err: errors.New("sink offline")},
		Logger:   zap.NewNop(),
	}
	if _, err := f.Run(context.Background(), "test"); err != nil {
		t.Fatalf("err=%v", err)
	}
}

type panicScanner struct{}

func (panicScanner) ScanUnit(ctx context.Context, unit models.SolarUnit) (ScanResult, error) {
	if unit.ID == 1 {
		panic("bad reading")
	}
	return ScanResult{Readings: 1}, nil
}

func TestFleetRunnerRecoversPanics(t *testing.T) {
	f := &FleetRunner{
		Units:   &stubUnits{units: []models.SolarUnit{{ID: 1}, {ID: 2}}},
		Scanner: panicScanner{},
	}
	report, err := f.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Failed != 1 || report.Succeeded != 1 {
		t.Fatalf("report=%+v", report)
	}
}

func TestFleetRunnerParallelMatchesSequential(t *testing.T) {
	units, records := fleetFixture()
	seq := &FleetRunner{Units: units, Scanner: &Scanner{Records: records, Anomalies: &stubSink{}}}
	want, err := seq.Run(context.Background(), "seq")
	if err != nil {
		t.Fatalf("seq err=%v", err)
	}
	sink := &lockedSink{}
	par := &FleetRunner{Units: units, Scanner: &Scanner{Records: records, Anomalies: sink}, Workers: 3}
	got, err := par.Run(context.Background(), "par")
	if err != nil {
		t.Fatalf("par err=%v", err)
	}
	if got.Succeeded != want.Succeeded || got.Failed != want.Failed || got.Inserted != want.Inserted {
		t.Fatalf("parallel=%+v sequential=%+v", got, want)
	}
	for i := range got.Outcomes {
		if got.Outcomes[i].SolarUnitID != want.Outcomes[i].SolarUnitID {
			t.Fatalf("outcome %d unit=%d want=%d", i, got.Outcomes[i].SolarUnitID, want.Outcomes[i].SolarUnitID)
		}
	}
}

func TestFleetRunnerCancelledContext(t *testing.T) {
	units, records := fleetFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &FleetRunner{Units: units, Scanner: &Scanner{Records: records, Anomalies: &stubSink{}}}
	report, err := f.Run(ctx, "test")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Failed != 3 {
		t.Fatalf("failed=%d want all units marked", report.Failed)
	}
}

func TestMultiReporterJoinsErrors(t *testing.T) {
	a := &captureReporter{}
	b := &captureReporter{err: errors.New("b failed")}
	m := MultiReporter{a, nil, b, LogReporter{Logger: zap.NewNop()}}
	err := m.Report(context.Background(), &SweepReport{})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(a.reports) != 1 || len(b.reports) != 1 {
		t.Fatalf("each reporter should be called once")
	}
}
