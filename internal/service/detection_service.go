package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"solarwatch/internal/anomaly"
)

const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

var ErrFeatureDisabled = errors.New("feature disabled")

// DetectionService is the single entry point for fleet sweeps, used by both cron and HTTP.
type DetectionService struct {
	Runner *anomaly.FleetRunner
	Flags  *SystemSettingsService
	Logger *zap.Logger
}

func (s *DetectionService) enabled(ctx context.Context) bool {
	return s.Flags == nil || s.Flags.IsEnabled(ctx, FeatureAnomalyDetection, true)
}

// Trigger runs a full pass on demand.
func (s *DetectionService) Trigger(ctx context.Context) (*anomaly.SweepReport, error) {
	if s == nil || s.Runner == nil {
		return nil, errors.New("detection service is not configured")
	}
	if !s.enabled(ctx) {
		return nil, ErrFeatureDisabled
	}
	return s.Runner.Run(ctx, TriggerManual)
}

// RunScheduled is the cron job body. Errors are logged, never returned.
func (s *DetectionService) RunScheduled(ctx context.Context) {
	if s == nil || s.Runner == nil {
		return
	}
	if !s.enabled(ctx) {
		if s.Logger != nil {
			s.Logger.Debug("anomaly detection switched off, skipping sweep")
		}
		return
	}
	if _, err := s.Runner.Run(ctx, TriggerScheduled); err != nil && s.Logger != nil {
		s.Logger.Warn("scheduled anomaly sweep failed", zap.Error(err))
	}
}
