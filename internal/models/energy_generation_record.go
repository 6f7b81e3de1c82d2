package models

import "time"

const (
	DefaultIntervalHours = 2.0
	MinIntervalHours     = 0.1
	MaxIntervalHours     = 24.0
)

// EnergyGenerationRecord is one reading: energy produced in the interval ending at Timestamp.
type EnergyGenerationRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SolarUnitID     uint64    `gorm:"not null;uniqueIndex:uniq_energy_record_unit_ts,priority:1" json:"solar_unit_id"`
	Timestamp       time.Time `gorm:"not null;uniqueIndex:uniq_energy_record_unit_ts,priority:2;index" json:"timestamp"`
	EnergyGenerated float64   `gorm:"not null" json:"energy_generated"`
	IntervalHours   float64   `gorm:"not null;default:2" json:"interval_hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EnergyGenerationRecord) TableName() string {
	return "energy_generation_records"
}
