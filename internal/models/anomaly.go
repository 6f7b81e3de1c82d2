package models

import "time"

type AnomalyType string

const (
	AnomalyNighttimeGeneration AnomalyType = "NIGHTTIME_GENERATION"
	AnomalyZeroGenerationPeak  AnomalyType = "ZERO_GENERATION_PEAK"
	AnomalySuddenDrop          AnomalyType = "SUDDEN_DROP"
	AnomalyInverterClipping    AnomalyType = "INVERTER_CLIPPING"
)

type AnomalySeverity string

const (
	SeverityCritical AnomalySeverity = "CRITICAL"
	SeverityWarning  AnomalySeverity = "WARNING"
	SeverityInfo     AnomalySeverity = "INFO"
)

type ResolutionStatus string

const (
	ResolutionOpen         ResolutionStatus = "OPEN"
	ResolutionAcknowledged ResolutionStatus = "ACKNOWLEDGED"
	ResolutionResolved     ResolutionStatus = "RESOLVED"
)

func ValidAnomalyType(v string) bool {
	switch AnomalyType(v) {
	case AnomalyNighttimeGeneration, AnomalyZeroGenerationPeak, AnomalySuddenDrop, AnomalyInverterClipping:
		return true
	}
	return false
}

func ValidSeverity(v string) bool {
	switch AnomalySeverity(v) {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

func ValidResolutionStatus(v string) bool {
	switch ResolutionStatus(v) {
	case ResolutionOpen, ResolutionAcknowledged, ResolutionResolved:
		return true
	}
	return false
}

// Anomaly is a detected condition on one reading. At most one row exists per
// (unit, type, record timestamp); only ResolutionStatus changes after insert.
type Anomaly struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SolarUnitID     uint64          `gorm:"not null;uniqueIndex:uniq_anomaly_unit_type_ts,priority:1" json:"solar_unit_id"`
	Type            AnomalyType     `gorm:"type:varchar(40);not null;uniqueIndex:uniq_anomaly_unit_type_ts,priority:2;index" json:"type"`
	RecordTimestamp time.Time       `gorm:"not null;uniqueIndex:uniq_anomaly_unit_type_ts,priority:3;index" json:"record_timestamp"`
	Severity        AnomalySeverity `gorm:"type:varchar(20);not null;index" json:"severity"`
	Description     string          `gorm:"type:text;not null" json:"description"`

	ResolutionStatus ResolutionStatus `gorm:"type:varchar(20);not null;index;default:'OPEN'" json:"resolution_status"`
	DetectedAt       time.Time        `gorm:"not null" json:"detected_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Anomaly) TableName() string {
	return "anomalies"
}
