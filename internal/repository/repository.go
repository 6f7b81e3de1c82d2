package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"solarwatch/internal/models"
)

type SolarUnitRepository interface {
	CreateSolarUnit(ctx context.Context, item *models.SolarUnit) error
	UpdateSolarUnit(ctx context.Context, item *models.SolarUnit) error
	DeleteSolarUnit(ctx context.Context, id uint64) (bool, error)
	GetSolarUnitByID(ctx context.Context, id uint64) (*models.SolarUnit, error)
	ListSolarUnits(ctx context.Context) ([]models.SolarUnit, error)
	ListSolarUnitsByStatus(ctx context.Context, status string) ([]models.SolarUnit, error)
	ListSolarUnitsByIDs(ctx context.Context, ids []uint64) ([]models.SolarUnit, error)
}

type EnergyRecordRepository interface {
	InsertEnergyRecords(ctx context.Context, items []models.EnergyGenerationRecord) (int64, error)
	// ListEnergyRecordsByUnit returns the full history of a unit ordered by timestamp ascending.
	ListEnergyRecordsByUnit(ctx context.Context, unitID uint64) ([]models.EnergyGenerationRecord, error)
	ListEnergyRecords(ctx context.Context, params ListEnergyRecordsParams) ([]models.EnergyGenerationRecord, error)
	CountEnergyRecords(ctx context.Context, params ListEnergyRecordsParams) (int64, error)
	// SumEnergyGenerated sums readings with from <= timestamp < to.
	SumEnergyGenerated(ctx context.Context, unitID uint64, from, to time.Time) (decimal.Decimal, error)
}

type AnomalyRepository interface {
	// InsertAnomalies inserts the batch and skips rows that collide with an
	// existing (unit, type, record timestamp). It returns the number of new rows.
	InsertAnomalies(ctx context.Context, items []models.Anomaly) (int64, error)
	ListAnomalies(ctx context.Context, params ListAnomaliesParams) ([]models.Anomaly, error)
	CountAnomalies(ctx context.Context, params ListAnomaliesParams) (int64, error)
	GetAnomalyByID(ctx context.Context, id uint64) (*models.Anomaly, error)
	UpdateAnomalyResolutionStatus(ctx context.Context, id uint64, status models.ResolutionStatus) (*models.Anomaly, error)
	AnomalyStats(ctx context.Context, params ListAnomaliesParams) ([]AnomalyStatRow, error)
}

type InvoiceRepository interface {
	// InsertInvoice returns created=false when an invoice for the same unit and period start exists.
	InsertInvoice(ctx context.Context, item *models.Invoice) (bool, error)
	GetInvoiceByID(ctx context.Context, id uint64) (*models.Invoice, error)
	ListInvoices(ctx context.Context, params ListInvoicesParams) ([]models.Invoice, error)
	CountInvoices(ctx context.Context, params ListInvoicesParams) (int64, error)
}

type SystemSettingRepository interface {
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

type Repository interface {
	SolarUnitRepository
	EnergyRecordRepository
	AnomalyRepository
	InvoiceRepository
	SystemSettingRepository
}

type ListEnergyRecordsParams struct {
	Limit       int
	Offset      int
	SolarUnitID *uint64
	From        *time.Time
	To          *time.Time
	Asc         *bool
}

type ListAnomaliesParams struct {
	Limit            int
	Offset           int
	SolarUnitID      *uint64
	Type             *string
	Severity         *string
	ResolutionStatus *string
}

type AnomalyStatRow struct {
	Type             string `json:"type"`
	Severity         string `json:"severity"`
	ResolutionStatus string `json:"resolution_status"`
	Count            int64  `json:"count"`
}

type ListInvoicesParams struct {
	Limit         int
	Offset        int
	SolarUnitID   *uint64
	UserID        *string
	PaymentStatus *string
	OrderBy       string
	Asc           *bool
}

type ListSystemSettingsParams struct {
	Limit  int
	Offset int
	Prefix *string
}
