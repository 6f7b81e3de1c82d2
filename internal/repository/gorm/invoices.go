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

func (s *Store) InsertInvoice(ctx context.Context, item *models.Invoice) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	item.BillingPeriodStart = item.BillingPeriodStart.UTC()
	item.BillingPeriodEnd = item.BillingPeriodEnd.UTC()
	if item.PaymentStatus == "" {
		item.PaymentStatus = models.PaymentStatusPending
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(item)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) GetInvoiceByID(ctx context.Context, id uint64) (*models.Invoice, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Invoice
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListInvoices(ctx context.Context, params repository.ListInvoicesParams) ([]models.Invoice, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := invoiceQuery(s.db.WithContext(ctx), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "billing_period_start")
	var items []models.Invoice
	err := query.
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountInvoices(ctx context.Context, params repository.ListInvoicesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := invoiceQuery(s.db.WithContext(ctx), params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func invoiceQuery(db *gorm.DB, params repository.ListInvoicesParams) *gorm.DB {
	query := db.Model(&models.Invoice{})
	if params.SolarUnitID != nil && *params.SolarUnitID > 0 {
		query = query.Where("solar_unit_id = ?", *params.SolarUnitID)
	}
	if v := trimmed(params.UserID); v != "" {
		query = query.Where("user_id = ?", v)
	}
	if v := trimmed(params.PaymentStatus); v != "" {
		query = query.Where("payment_status = ?", strings.ToUpper(v))
	}
	return query
}
