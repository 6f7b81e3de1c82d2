package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
)

const (
	FeatureAnomalyDetection  = "feature.anomaly_detection"
	FeatureInvoiceGeneration = "feature.invoice_generation"
)

const featurePrefix = "feature."

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureAnomalyDetection:  true,
		FeatureInvoiceGeneration: true,
	}
}

// FeatureKey maps a switch name such as "anomaly_detection" to its settings key.
func FeatureKey(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, featurePrefix) {
		return name
	}
	return featurePrefix + name
}

type SystemSettingsService struct {
	Repo repository.SystemSettingRepository
}

// EnsureDefaultSwitches creates missing switches. Existing values are left alone.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: "feature switch",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: "feature switch",
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}

type FeatureSwitch struct {
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *SystemSettingsService) ListSwitches(ctx context.Context) ([]FeatureSwitch, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	prefix := featurePrefix
	items, err := s.Repo.ListSystemSettings(ctx, repository.ListSystemSettingsParams{Prefix: &prefix})
	if err != nil {
		return nil, err
	}
	out := make([]FeatureSwitch, 0, len(items))
	for _, it := range items {
		enabled := false
		_ = json.Unmarshal(it.Value, &enabled)
		out = append(out, FeatureSwitch{
			Name:        strings.TrimPrefix(it.Key, featurePrefix),
			Key:         it.Key,
			Enabled:     enabled,
			Description: it.Description,
			UpdatedAt:   it.UpdatedAt,
		})
	}
	return out, nil
}
