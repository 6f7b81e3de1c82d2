package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"solarwatch/internal/models"
)

func (s *Store) CreateSolarUnit(ctx context.Context, item *models.SolarUnit) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	normalizeSolarUnit(item)
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSolarUnit(ctx context.Context, item *models.SolarUnit) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	normalizeSolarUnit(item)
	item.UpdatedAt = nowUTC()
	return s.db.WithContext(ctx).
		Model(item).
		Select("serial_number", "user_id", "installation_date", "capacity_kw", "status", "updated_at").
		Updates(item).Error
}

// DeleteSolarUnit removes the unit with its readings and anomalies. Invoices stay as billing history.
func (s *Store) DeleteSolarUnit(ctx context.Context, id uint64) (bool, error) {
	if s == nil || s.db == nil || id == 0 {
		return false, nil
	}
	var deleted bool
	err := s.InTx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.SolarUnit{}, id)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		deleted = true
		if err := tx.Where("solar_unit_id = ?", id).Delete(&models.EnergyGenerationRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("solar_unit_id = ?", id).Delete(&models.Anomaly{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Store) GetSolarUnitByID(ctx context.Context, id uint64) (*models.SolarUnit, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.SolarUnit
	err := s.db.WithContext(ctx).Model(&models.SolarUnit{}).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListSolarUnits returns every unit regardless of status, ordered by id.
func (s *Store) ListSolarUnits(ctx context.Context) ([]models.SolarUnit, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SolarUnit
	if err := s.db.WithContext(ctx).Model(&models.SolarUnit{}).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSolarUnitsByStatus(ctx context.Context, status string) ([]models.SolarUnit, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return s.ListSolarUnits(ctx)
	}
	var items []models.SolarUnit
	if err := s.db.WithContext(ctx).
		Model(&models.SolarUnit{}).
		Where("status = ?", status).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSolarUnitsByIDs(ctx context.Context, ids []uint64) ([]models.SolarUnit, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	ids = cleanIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.SolarUnit
	if err := s.db.WithContext(ctx).Model(&models.SolarUnit{}).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func normalizeSolarUnit(item *models.SolarUnit) {
	item.SerialNumber = strings.TrimSpace(item.SerialNumber)
	item.UserID = strings.TrimSpace(item.UserID)
	item.Status = strings.ToUpper(strings.TrimSpace(item.Status))
	if item.Status == "" {
		item.Status = models.SolarUnitStatusActive
	}
	item.InstallationDate = item.InstallationDate.UTC()
}
