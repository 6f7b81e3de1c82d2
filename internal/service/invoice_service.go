package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solarwatch/internal/models"
)

type InvoiceUnitFailure struct {
	SolarUnitID uint64 `json:"solar_unit_id"`
	Error       string `json:"error"`
}

type InvoiceRunResult struct {
	RunDate  time.Time            `json:"run_date"`
	Units    int                  `json:"units"`
	Due      int                  `json:"due"`
	Created  int                  `json:"created"`
	Skipped  int                  `json:"skipped"`
	Empty    int                  `json:"empty"`
	Failures []InvoiceUnitFailure `json:"failures,omitempty"`
}

// InvoiceRepository is the slice of the store the invoice run needs.
type InvoiceRepository interface {
	ListSolarUnitsByStatus(ctx context.Context, status string) ([]models.SolarUnit, error)
	SumEnergyGenerated(ctx context.Context, unitID uint64, from, to time.Time) (decimal.Decimal, error)
	InsertInvoice(ctx context.Context, item *models.Invoice) (bool, error)
}

// InvoiceService issues monthly invoices on each unit's installation anniversary day.
type InvoiceService struct {
	Repo   InvoiceRepository
	Flags  *SystemSettingsService
	Logger *zap.Logger
}

// RunOnce bills every active unit whose billing day is today (UTC).
// The period runs from the previous billing date up to today, both at midnight UTC.
func (s *InvoiceService) RunOnce(ctx context.Context, now time.Time) (*InvoiceRunResult, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("invoice service is not configured")
	}
	today := startOfDayUTC(now)
	result := &InvoiceRunResult{RunDate: today}

	units, err := s.Repo.ListSolarUnitsByStatus(ctx, models.SolarUnitStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active units: %w", err)
	}
	result.Units = len(units)

	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if billingDay(unit.InstallationDate, today) != today.Day() {
			continue
		}
		result.Due++
		created, empty, err := s.billUnit(ctx, unit, previousBillingDate(unit.InstallationDate, today), today)
		switch {
		case err != nil:
			result.Failures = append(result.Failures, InvoiceUnitFailure{SolarUnitID: unit.ID, Error: err.Error()})
			if s.Logger != nil {
				s.Logger.Warn("invoice generation failed", zap.Uint64("solar_unit_id", unit.ID), zap.Error(err))
			}
		case empty:
			result.Empty++
		case created:
			result.Created++
		default:
			result.Skipped++
		}
	}
	if s.Logger != nil {
		s.Logger.Info("invoice run complete",
			zap.Time("run_date", today),
			zap.Int("due", result.Due),
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", len(result.Failures)),
		)
	}
	return result, nil
}

func (s *InvoiceService) billUnit(ctx context.Context, unit models.SolarUnit, from, to time.Time) (created bool, empty bool, err error) {
	total, err := s.Repo.SumEnergyGenerated(ctx, unit.ID, from, to)
	if err != nil {
		return false, false, fmt.Errorf("sum energy: %w", err)
	}
	if !total.IsPositive() {
		return false, true, nil
	}
	inv := &models.Invoice{
		SolarUnitID:          unit.ID,
		UserID:               unit.UserID,
		BillingPeriodStart:   from,
		BillingPeriodEnd:     to,
		TotalEnergyGenerated: total,
		PaymentStatus:        models.PaymentStatusPending,
	}
	created, err = s.Repo.InsertInvoice(ctx, inv)
	if err != nil {
		return false, false, fmt.Errorf("insert invoice: %w", err)
	}
	return created, false, nil
}

// RunScheduled is the cron job body.
func (s *InvoiceService) RunScheduled(ctx context.Context) {
	if s == nil {
		return
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureInvoiceGeneration, true) {
		return
	}
	if _, err := s.RunOnce(ctx, time.Now()); err != nil && s.Logger != nil {
		s.Logger.Warn("scheduled invoice run failed", zap.Error(err))
	}
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// billingDay is the installation day of month, clamped to the length of the month containing ref.
func billingDay(installed, ref time.Time) int {
	day := installed.UTC().Day()
	if n := daysIn(ref.Year(), ref.Month()); day > n {
		return n
	}
	return day
}

func previousBillingDate(installed, today time.Time) time.Time {
	prev := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	return time.Date(prev.Year(), prev.Month(), billingDay(installed, prev), 0, 0, 0, 0, time.UTC)
}
