package service

import (
	"context"
	"encoding/json"
	"time"

	"solarwatch/internal/anomaly"
	"solarwatch/internal/cache"
)

const latestSweepKey = "anomaly:sweep:latest"

// SweepReportStore keeps the most recent sweep report in the cache.
type SweepReportStore struct {
	Cache cache.Store
	TTL   time.Duration
}

func (s *SweepReportStore) Report(ctx context.Context, report *anomaly.SweepReport) error {
	if s == nil || s.Cache == nil || report == nil {
		return nil
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.Cache.Set(ctx, latestSweepKey, raw, s.TTL)
}

// Latest returns nil when no sweep has been recorded or it has expired.
func (s *SweepReportStore) Latest(ctx context.Context) (*anomaly.SweepReport, error) {
	if s == nil || s.Cache == nil {
		return nil, nil
	}
	raw, ok, err := s.Cache.Get(ctx, latestSweepKey)
	if err != nil || !ok {
		return nil, err
	}
	var report anomaly.SweepReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
