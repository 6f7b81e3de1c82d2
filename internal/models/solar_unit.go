package models

import "time"

const (
	SolarUnitStatusActive      = "ACTIVE"
	SolarUnitStatusInactive    = "INACTIVE"
	SolarUnitStatusMaintenance = "MAINTENANCE"
)

// SolarUnit is one generation site. Status is consulted by billing, not by detection.
type SolarUnit struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SerialNumber     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"serial_number"`
	UserID           string    `gorm:"type:varchar(100);not null;index" json:"user_id"`
	InstallationDate time.Time `gorm:"not null" json:"installation_date"`
	CapacityKW       float64   `gorm:"not null;default:0" json:"capacity_kw"`
	Status           string    `gorm:"type:varchar(20);not null;index;default:'ACTIVE'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SolarUnit) TableName() string {
	return "solar_units"
}

func ValidSolarUnitStatus(status string) bool {
	switch status {
	case SolarUnitStatusActive, SolarUnitStatusInactive, SolarUnitStatusMaintenance:
		return true
	default:
		return false
	}
}
