package gormrepository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
)

// InsertEnergyRecords ignores readings already stored for the same unit and timestamp.
func (s *Store) InsertEnergyRecords(ctx context.Context, items []models.EnergyGenerationRecord) (int64, error) {
	if s == nil || s.db == nil || len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		items[i].Timestamp = items[i].Timestamp.UTC()
		if items[i].IntervalHours <= 0 {
			items[i].IntervalHours = models.DefaultIntervalHours
		}
	}
	return createIgnoringConflicts(s.db.WithContext(ctx), items, s.batch())
}

func (s *Store) ListEnergyRecordsByUnit(ctx context.Context, unitID uint64) ([]models.EnergyGenerationRecord, error) {
	if s == nil || s.db == nil || unitID == 0 {
		return nil, nil
	}
	var items []models.EnergyGenerationRecord
	err := s.db.WithContext(ctx).
		Model(&models.EnergyGenerationRecord{}).
		Where("solar_unit_id = ?", unitID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListEnergyRecords(ctx context.Context, params repository.ListEnergyRecordsParams) ([]models.EnergyGenerationRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := energyRecordQuery(s.db.WithContext(ctx), params)
	query = applyOrder(query, "timestamp", params.Asc, "timestamp")
	var items []models.EnergyGenerationRecord
	err := query.
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountEnergyRecords(ctx context.Context, params repository.ListEnergyRecordsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := energyRecordQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SumEnergyGenerated(ctx context.Context, unitID uint64, from, to time.Time) (decimal.Decimal, error) {
	if s == nil || s.db == nil || unitID == 0 || !to.After(from) {
		return decimal.Zero, nil
	}
	var out float64
	err := s.db.WithContext(ctx).
		Model(&models.EnergyGenerationRecord{}).
		Select("COALESCE(SUM(energy_generated),0)").
		Where("solar_unit_id = ?", unitID).
		Where(clause.Gte{Column: "timestamp", Value: from.UTC()}).
		Where(clause.Lt{Column: "timestamp", Value: to.UTC()}).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(out).Round(6), nil
}

func energyRecordQuery(db *gorm.DB, params repository.ListEnergyRecordsParams) *gorm.DB {
	query := db.Model(&models.EnergyGenerationRecord{})
	if params.SolarUnitID != nil && *params.SolarUnitID > 0 {
		query = query.Where("solar_unit_id = ?", *params.SolarUnitID)
	}
	if params.From != nil && !params.From.IsZero() {
		query = query.Where(clause.Gte{Column: "timestamp", Value: params.From.UTC()})
	}
	if params.To != nil && !params.To.IsZero() {
		query = query.Where(clause.Lt{Column: "timestamp", Value: params.To.UTC()})
	}
	return query
}
