package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
)

type SolarUnitHandler struct {
	Repo repository.Repository
}

func (h *SolarUnitHandler) Register(r *gin.Engine) {
	g := r.Group("/api/solar-units")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type solarUnitRequest struct {
	SerialNumber     string  `json:"serial_number"`
	UserID           string  `json:"user_id"`
	InstallationDate string  `json:"installation_date"`
	CapacityKW       float64 `json:"capacity_kw"`
	Status           string  `json:"status"`
}

func (req solarUnitRequest) toModel() (*models.SolarUnit, string) {
	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		return nil, "serial_number required"
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, "user_id required"
	}
	installed, err := parseTime(strings.TrimSpace(req.InstallationDate))
	if err != nil {
		return nil, "invalid installation_date"
	}
	if req.CapacityKW < 0 {
		return nil, "capacity_kw must be >= 0"
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.SolarUnitStatusActive
	}
	if !models.ValidSolarUnitStatus(status) {
		return nil, "invalid status"
	}
	return &models.SolarUnit{
		SerialNumber:     serial,
		UserID:           userID,
		InstallationDate: installed,
		CapacityKW:       req.CapacityKW,
		Status:           status,
	}, ""
}

// @Summary List solar units
// @Tags solar-units
// @Param status query string false "ACTIVE|INACTIVE|MAINTENANCE"
// @Success 200 {object} map[string]any
// @Router /api/solar-units [get]
func (h *SolarUnitHandler) list(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	items, err := h.Repo.ListSolarUnitsByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if items == nil {
		items = []models.SolarUnit{}
	}
	Ok(c, items, map[string]any{"total": len(items)})
}

// @Summary Create solar unit
// @Tags solar-units
// @Param body body solarUnitRequest true "unit"
// @Success 201 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/solar-units [post]
func (h *SolarUnitHandler) create(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	var req solarUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Repo.CreateSolarUnit(c.Request.Context(), item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "serial_number already registered", nil)
			return
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Created(c, item)
}

// @Summary Get solar unit
// @Tags solar-units
// @Param id path int true "unit id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/solar-units/{id} [get]
func (h *SolarUnitHandler) get(c *gin.Context) {
	item, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, item, nil)
}

// @Summary Replace solar unit
// @Tags solar-units
// @Param id path int true "unit id"
// @Param body body solarUnitRequest true "unit"
// @Success 200 {object} map[string]any
// @Router /api/solar-units/{id} [put]
func (h *SolarUnitHandler) update(c *gin.Context) {
	existing, ok := h.load(c)
	if !ok {
		return
	}
	var req solarUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, msg := req.toModel()
	if msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	if err := h.Repo.UpdateSolarUnit(c.Request.Context(), item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "serial_number already registered", nil)
			return
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete solar unit
// @Tags solar-units
// @Param id path int true "unit id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/solar-units/{id} [delete]
func (h *SolarUnitHandler) delete(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	deleted, err := h.Repo.DeleteSolarUnit(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if !deleted {
		Error(c, http.StatusNotFound, "solar unit not found", nil)
		return
	}
	Ok(c, gin.H{"id": id, "deleted": true, "deleted_at": time.Now().UTC()}, nil)
}

func (h *SolarUnitHandler) load(c *gin.Context) (*models.SolarUnit, bool) {
	if h.Repo == nil {
		repoUnavailable(c)
		return nil, false
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return nil, false
	}
	item, err := h.Repo.GetSolarUnitByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if item == nil {
		Error(c, http.StatusNotFound, "solar unit not found", nil)
		return nil, false
	}
	return item, true
}
