package anomaly

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// LogReporter writes one line per failed unit.
type LogReporter struct {
	Logger *zap.Logger
}

func (r LogReporter) Report(ctx context.Context, report *SweepReport) error {
	if r.Logger == nil || report == nil {
		return nil
	}
	for _, o := range report.FailedOutcomes() {
		r.Logger.Error("anomaly sweep unit failure",
			zap.String("trigger", report.Trigger),
			zap.Uint64("unit_id", o.SolarUnitID),
			zap.String("serial_number", o.SerialNumber),
			zap.String("error", o.Error),
		)
	}
	return nil
}

// MultiReporter fans a report out to every reporter and joins their errors.
type MultiReporter []Reporter

func (m MultiReporter) Report(ctx context.Context, report *SweepReport) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
