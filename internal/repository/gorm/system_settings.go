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

// "key" is reserved in MySQL, so column references go through clause builders for quoting.

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).
		Model(&models.SystemSetting{}).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := systemSettingQuery(s.db.WithContext(ctx), params)
	var items []models.SystemSetting
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Limit(normalizeLimit(params.Limit, 500)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := systemSettingQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func systemSettingQuery(db *gorm.DB, params repository.ListSystemSettingsParams) *gorm.DB {
	query := db.Model(&models.SystemSetting{})
	if v := trimmed(params.Prefix); v != "" {
		query = query.Where(clause.Like{Column: clause.Column{Name: "key"}, Value: v + "%"})
	}
	return query
}
