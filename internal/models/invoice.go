package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Invoice covers one billing period of a unit. Pricing is applied by the payment provider.
type Invoice struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	SolarUnitID        uint64    `gorm:"not null;uniqueIndex:uniq_invoice_unit_period,priority:1" json:"solar_unit_id"`
	UserID             string    `gorm:"type:varchar(100);not null;index" json:"user_id"`
	BillingPeriodStart time.Time `gorm:"not null;uniqueIndex:uniq_invoice_unit_period,priority:2" json:"billing_period_start"`
	BillingPeriodEnd   time.Time `gorm:"not null" json:"billing_period_end"`

	TotalEnergyGenerated decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"total_energy_generated"`
	PaymentStatus        string          `gorm:"type:varchar(20);not null;index;default:'PENDING'" json:"payment_status"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}
