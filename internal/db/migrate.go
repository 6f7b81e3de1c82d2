package db

import (
	"solarwatch/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.SolarUnit{},
		&models.EnergyGenerationRecord{},
		&models.Anomaly{},
		&models.Invoice{},
		&models.SystemSetting{},
	)
}
