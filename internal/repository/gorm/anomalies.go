package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
)

func (s *Store) InsertAnomalies(ctx context.Context, items []models.Anomaly) (int64, error) {
	if s == nil || s.db == nil || len(items) == 0 {
		return 0, nil
	}
	now := nowUTC()
	for i := range items {
		items[i].RecordTimestamp = items[i].RecordTimestamp.UTC()
		if items[i].DetectedAt.IsZero() {
			items[i].DetectedAt = now
		}
		if items[i].ResolutionStatus == "" {
			items[i].ResolutionStatus = models.ResolutionOpen
		}
	}

	db := s.db.WithContext(ctx)
	size := s.batch()
	var inserted int64
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		n, err := createIgnoringConflicts(db, chunk, size)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Some dialects still raise on conflict; fall back to per-row inserts.
			n, err = insertAnomaliesOneByOne(db, chunk)
		}
		if err != nil {
			return inserted, err
		}
		inserted += n
	}
	return inserted, nil
}

func insertAnomaliesOneByOne(db *gorm.DB, items []models.Anomaly) (int64, error) {
	var inserted int64
	for i := range items {
		row := items[i]
		row.ID = 0
		err := db.Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (s *Store) ListAnomalies(ctx context.Context, params repository.ListAnomaliesParams) ([]models.Anomaly, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Anomaly
	err := anomalyQuery(s.db.WithContext(ctx), params).
		Order("record_timestamp desc").
		Order("id desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAnomalies(ctx context.Context, params repository.ListAnomaliesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := anomalyQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) GetAnomalyByID(ctx context.Context, id uint64) (*models.Anomaly, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Anomaly
	err := s.db.WithContext(ctx).Model(&models.Anomaly{}).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateAnomalyResolutionStatus returns nil when the anomaly does not exist.
func (s *Store) UpdateAnomalyResolutionStatus(ctx context.Context, id uint64, status models.ResolutionStatus) (*models.Anomaly, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	existing, err := s.GetAnomalyByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).
		Model(&models.Anomaly{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"resolution_status": status,
			"updated_at":        nowUTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return s.GetAnomalyByID(ctx, id)
}

func (s *Store) AnomalyStats(ctx context.Context, params repository.ListAnomaliesParams) ([]repository.AnomalyStatRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []repository.AnomalyStatRow
	err := anomalyQuery(s.db.WithContext(ctx), params).
		Select("type, severity, resolution_status, COUNT(*) AS count").
		Group("type").
		Group("severity").
		Group("resolution_status").
		Order("type asc").
		Order("severity asc").
		Order("resolution_status asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func anomalyQuery(db *gorm.DB, params repository.ListAnomaliesParams) *gorm.DB {
	query := db.Model(&models.Anomaly{})
	if params.SolarUnitID != nil && *params.SolarUnitID > 0 {
		query = query.Where("solar_unit_id = ?", *params.SolarUnitID)
	}
	if v := trimmed(params.Type); v != "" {
		query = query.Where(clause.Eq{Column: "type", Value: strings.ToUpper(v)})
	}
	if v := trimmed(params.Severity); v != "" {
		query = query.Where("severity = ?", strings.ToUpper(v))
	}
	if v := trimmed(params.ResolutionStatus); v != "" {
		query = query.Where("resolution_status = ?", strings.ToUpper(v))
	}
	return query
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
