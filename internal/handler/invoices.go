package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
	"solarwatch/internal/service"
)

type InvoiceHandler struct {
	Repo     repository.Repository
	Invoices *service.InvoiceService
}

func (h *InvoiceHandler) Register(r *gin.Engine) {
	g := r.Group("/api/invoices")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	r.POST("/api/admin/invoices/generate", h.generate)
}

// @Summary List invoices
// @Tags invoices
// @Param solar_unit_id query int false "solar unit id"
// @Param user_id query string false "owner"
// @Param payment_status query string false "PENDING|PAID|FAILED"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} map[string]any
// @Router /api/invoices [get]
func (h *InvoiceHandler) list(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	unitID, ok := uint64QueryPtr(c, "solar_unit_id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid solar_unit_id", nil)
		return
	}
	limit, offset := pageQuery(c, 100)
	params := repository.ListInvoicesParams{
		Limit:         limit,
		Offset:        offset,
		SolarUnitID:   unitID,
		UserID:        strQueryPtr(c, "user_id"),
		PaymentStatus: upperQueryPtr(c, "payment_status"),
		OrderBy:       "billing_period_start",
		Asc:           boolPtr(false),
	}
	items, err := h.Repo.ListInvoices(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountInvoices(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if items == nil {
		items = []models.Invoice{}
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get invoice
// @Tags invoices
// @Param id path int true "invoice id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/invoices/{id} [get]
func (h *InvoiceHandler) get(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "invoice not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Run invoice generation
// @Description Bills units whose billing day falls on date (default today, UTC).
// @Tags invoices
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]any
// @Router /api/admin/invoices/generate [post]
func (h *InvoiceHandler) generate(c *gin.Context) {
	if h.Invoices == nil {
		Error(c, http.StatusInternalServerError, "invoice service unavailable", nil)
		return
	}
	now := time.Now().UTC()
	if v := strings.TrimSpace(c.Query("date")); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid date", nil)
			return
		}
		now = d
	}
	result, err := h.Invoices.RunOnce(c.Request.Context(), now)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
