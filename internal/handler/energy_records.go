package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"solarwatch/internal/models"
	"solarwatch/internal/repository"
)

type EnergyRecordHandler struct {
	Repo repository.Repository
}

func (h *EnergyRecordHandler) Register(r *gin.Engine) {
	g := r.Group("/api/energy-generation-records")
	g.GET("/solar-unit/:id", h.listByUnit)
	g.POST("", h.ingest)
}

// @Summary List readings of a unit
// @Tags energy-records
// @Param id path int true "unit id"
// @Param from query string false "inclusive lower bound, RFC3339 or YYYY-MM-DD"
// @Param to query string false "exclusive upper bound, RFC3339 or YYYY-MM-DD"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} map[string]any
// @Router /api/energy-generation-records/solar-unit/{id} [get]
func (h *EnergyRecordHandler) listByUnit(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	from, ok := timeQueryPtr(c, "from")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid from", nil)
		return
	}
	to, ok := timeQueryPtr(c, "to")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid to", nil)
		return
	}
	limit, offset := pageQuery(c, 200)
	params := repository.ListEnergyRecordsParams{
		Limit:       limit,
		Offset:      offset,
		SolarUnitID: &id,
		From:        from,
		To:          to,
		Asc:         boolPtr(true),
	}
	items, err := h.Repo.ListEnergyRecords(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountEnergyRecords(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if items == nil {
		items = []models.EnergyGenerationRecord{}
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

type energyReadingRequest struct {
	SolarUnitID     uint64   `json:"solar_unit_id"`
	Timestamp       string   `json:"timestamp"`
	EnergyGenerated *float64 `json:"energy_generated"`
	IntervalHours   *float64 `json:"interval_hours"`
}

type ingestRequest struct {
	Records []energyReadingRequest `json:"records"`
}

// @Summary Bulk ingest readings
// @Description Readings already stored for the same unit and timestamp are skipped.
// @Tags energy-records
// @Param body body ingestRequest true "readings"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/energy-generation-records [post]
func (h *EnergyRecordHandler) ingest(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if len(req.Records) == 0 {
		Error(c, http.StatusBadRequest, "records required", nil)
		return
	}

	items := make([]models.EnergyGenerationRecord, 0, len(req.Records))
	unitIDs := make([]uint64, 0, len(req.Records))
	for i, r := range req.Records {
		item, msg := r.toModel()
		if msg != "" {
			Error(c, http.StatusBadRequest, fmt.Sprintf("records[%d]: %s", i, msg), nil)
			return
		}
		items = append(items, item)
		unitIDs = append(unitIDs, item.SolarUnitID)
	}

	units, err := h.Repo.ListSolarUnitsByIDs(c.Request.Context(), unitIDs)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	known := make(map[uint64]bool, len(units))
	for _, u := range units {
		known[u.ID] = true
	}
	for i, it := range items {
		if !known[it.SolarUnitID] {
			Error(c, http.StatusBadRequest, fmt.Sprintf("records[%d]: solar unit %d not found", i, it.SolarUnitID), nil)
			return
		}
	}

	inserted, err := h.Repo.InsertEnergyRecords(c.Request.Context(), items)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"received":   len(items),
		"inserted":   inserted,
		"duplicates": int64(len(items)) - inserted,
	}, nil)
}

func (r energyReadingRequest) toModel() (models.EnergyGenerationRecord, string) {
	var out models.EnergyGenerationRecord
	if r.SolarUnitID == 0 {
		return out, "solar_unit_id required"
	}
	ts, err := parseTime(r.Timestamp)
	if err != nil {
		return out, "invalid timestamp"
	}
	if r.EnergyGenerated == nil {
		return out, "energy_generated required"
	}
	if *r.EnergyGenerated < 0 {
		return out, "energy_generated must be >= 0"
	}
	interval := models.DefaultIntervalHours
	if r.IntervalHours != nil {
		interval = *r.IntervalHours
		if interval < models.MinIntervalHours || interval > models.MaxIntervalHours {
			return out, fmt.Sprintf("interval_hours must be within %g..%g", models.MinIntervalHours, models.MaxIntervalHours)
		}
	}
	out.SolarUnitID = r.SolarUnitID
	out.Timestamp = ts
	out.EnergyGenerated = *r.EnergyGenerated
	out.IntervalHours = interval
	return out, ""
}
