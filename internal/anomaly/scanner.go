package anomaly

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"solarwatch/internal/models"
)

// RecordSource returns a unit's readings ordered by timestamp ascending.
type RecordSource interface {
	ListEnergyRecordsByUnit(ctx context.Context, unitID uint64) ([]models.EnergyGenerationRecord, error)
}

// AnomalySink persists a batch, skipping facts that already exist for the
// same (unit, type, record timestamp), and reports how many rows were new.
type AnomalySink interface {
	InsertAnomalies(ctx context.Context, items []models.Anomaly) (int64, error)
}

type ScanResult struct {
	Readings   int   `json:"readings"`
	Candidates int   `json:"candidates"`
	Inserted   int64 `json:"inserted"`
	// Duplicates counts candidates the store already held.
	Duplicates int64 `json:"duplicates"`
	Reordered  bool  `json:"reordered,omitempty"`
}

type Scanner struct {
	Records   RecordSource
	Anomalies AnomalySink
	Evaluator *Evaluator
	Logger    *zap.Logger
	Now       func() time.Time
}

// ScanUnit evaluates the full history of one unit and stores what it finds.
func (s *Scanner) ScanUnit(ctx context.Context, unit models.SolarUnit) (ScanResult, error) {
	var result ScanResult
	if s == nil || s.Records == nil || s.Anomalies == nil {
		return result, fmt.Errorf("anomaly scanner is not configured")
	}
	records, err := s.Records.ListEnergyRecordsByUnit(ctx, unit.ID)
	if err != nil {
		return result, fmt.Errorf("list records for unit %d: %w", unit.ID, err)
	}
	result.Readings = len(records)
	if len(records) == 0 {
		return result, nil
	}

	if !sortedByTimestamp(records) {
		result.Reordered = true
		if s.Logger != nil {
			s.Logger.Warn("energy records out of order, sorting before scan",
				zap.Uint64("unit_id", unit.ID),
				zap.String("serial_number", unit.SerialNumber),
			)
		}
		records = append([]models.EnergyGenerationRecord(nil), records...)
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Timestamp.Before(records[j].Timestamp)
		})
	}

	candidates := s.evaluate(records)
	result.Candidates = len(candidates)
	if len(candidates) == 0 {
		return result, nil
	}

	detectedAt := s.now()
	batch := make([]models.Anomaly, 0, len(candidates))
	for _, c := range candidates {
		batch = append(batch, models.Anomaly{
			SolarUnitID:      unit.ID,
			Type:             c.Type,
			Severity:         c.Severity,
			Description:      c.Description,
			RecordTimestamp:  c.RecordTimestamp.UTC(),
			ResolutionStatus: models.ResolutionOpen,
			DetectedAt:       detectedAt,
		})
	}
	inserted, err := s.Anomalies.InsertAnomalies(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("insert anomalies for unit %d: %w", unit.ID, err)
	}
	result.Inserted = inserted
	result.Duplicates = int64(len(batch)) - inserted
	return result, nil
}

func (s *Scanner) evaluate(records []models.EnergyGenerationRecord) []Candidate {
	evaluator := s.Evaluator
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultThresholds())
	}
	var out []Candidate
	var prev *Reading
	for _, rec := range records {
		cur := Reading{Timestamp: rec.Timestamp, EnergyKWh: rec.EnergyGenerated}
		out = append(out, evaluator.Evaluate(cur, prev)...)
		prev = &cur
	}
	return out
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func sortedByTimestamp(records []models.EnergyGenerationRecord) bool {
	return sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
