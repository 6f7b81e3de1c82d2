package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarwatch/internal/anomaly"
	"solarwatch/internal/models"
	"solarwatch/internal/repository"
	"solarwatch/internal/service"
)

type AnomalyHandler struct {
	Repo      repository.Repository
	Detection *service.DetectionService
	Reports   *service.SweepReportStore
	Logger    *zap.Logger
}

func (h *AnomalyHandler) Register(r *gin.Engine) {
	g := r.Group("/api/anomalies")
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.POST("/trigger-detection", h.trigger)
	g.GET("/detection-runs/latest", h.latestRun)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.updateStatus)
}

// anomalyView is an anomaly joined with the owning unit.
type anomalyView struct {
	models.Anomaly
	SerialNumber string `json:"serial_number"`
	UserID       string `json:"user_id"`
}

// @Summary List anomalies
// @Tags anomalies
// @Param solar_unit_id query int false "solar unit id"
// @Param type query string false "NIGHTTIME_GENERATION|ZERO_GENERATION_PEAK|SUDDEN_DROP|INVERTER_CLIPPING"
// @Param severity query string false "CRITICAL|WARNING|INFO"
// @Param resolution_status query string false "OPEN|ACKNOWLEDGED|RESOLVED"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} map[string]any
// @Router /api/anomalies [get]
func (h *AnomalyHandler) list(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	params, ok := anomalyParams(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListAnomalies(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountAnomalies(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	views, err := h.withUnits(c, items)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, views, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary Anomaly counts by type, severity and status
// @Tags anomalies
// @Param solar_unit_id query int false "solar unit id"
// @Success 200 {object} map[string]any
// @Router /api/anomalies/stats [get]
func (h *AnomalyHandler) stats(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	params, ok := anomalyParams(c)
	if !ok {
		return
	}
	rows, err := h.Repo.AnomalyStats(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	byStatus := map[string]int64{
		string(models.ResolutionOpen):         0,
		string(models.ResolutionAcknowledged): 0,
		string(models.ResolutionResolved):     0,
	}
	var total int64
	for _, row := range rows {
		byStatus[row.ResolutionStatus] += row.Count
		total += row.Count
	}
	Ok(c, gin.H{
		"total":     total,
		"by_status": byStatus,
		"groups":    rows,
	}, nil)
}

// @Summary Get anomaly
// @Tags anomalies
// @Param id path int true "anomaly id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/anomalies/{id} [get]
func (h *AnomalyHandler) get(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Repo.GetAnomalyByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "anomaly not found", nil)
		return
	}
	views, err := h.withUnits(c, []models.Anomaly{*item})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, views[0], nil)
}

type updateAnomalyRequest struct {
	ResolutionStatus string `json:"resolution_status"`
}

// @Summary Update anomaly resolution status
// @Tags anomalies
// @Param id path int true "anomaly id"
// @Param body body updateAnomalyRequest true "new status"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/anomalies/{id} [patch]
func (h *AnomalyHandler) updateStatus(c *gin.Context) {
	if h.Repo == nil {
		repoUnavailable(c)
		return
	}
	id, ok := uint64Param(c, "id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req updateAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.ResolutionStatus))
	if !models.ValidResolutionStatus(status) {
		Error(c, http.StatusBadRequest, "invalid resolution_status", nil)
		return
	}
	item, err := h.Repo.UpdateAnomalyResolutionStatus(c.Request.Context(), id, models.ResolutionStatus(status))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "anomaly not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Run anomaly detection over the whole fleet
// @Tags anomalies
// @Success 200 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/anomalies/trigger-detection [post]
func (h *AnomalyHandler) trigger(c *gin.Context) {
	if h.Detection == nil {
		Error(c, http.StatusInternalServerError, "detection service unavailable", nil)
		return
	}
	report, err := h.Detection.Trigger(c.Request.Context())
	if errors.Is(err, service.ErrFeatureDisabled) {
		Error(c, http.StatusConflict, "anomaly detection is switched off", nil)
		return
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("manual anomaly sweep failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, report, nil)
}

// @Summary Latest sweep report
// @Tags anomalies
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/anomalies/detection-runs/latest [get]
func (h *AnomalyHandler) latestRun(c *gin.Context) {
	var report *anomaly.SweepReport
	if h.Reports != nil {
		var err error
		report, err = h.Reports.Latest(c.Request.Context())
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
	}
	if report == nil {
		Error(c, http.StatusNotFound, "no detection run recorded", nil)
		return
	}
	Ok(c, report, nil)
}

func (h *AnomalyHandler) withUnits(c *gin.Context, items []models.Anomaly) ([]anomalyView, error) {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.SolarUnitID)
	}
	units, err := h.Repo.ListSolarUnitsByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]models.SolarUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	out := make([]anomalyView, 0, len(items))
	for _, it := range items {
		u := byID[it.SolarUnitID]
		out = append(out, anomalyView{Anomaly: it, SerialNumber: u.SerialNumber, UserID: u.UserID})
	}
	return out, nil
}

// anomalyParams writes a 400 and returns ok=false on a malformed filter.
func anomalyParams(c *gin.Context) (repository.ListAnomaliesParams, bool) {
	limit, offset := pageQuery(c, 100)
	unitID, ok := uint64QueryPtr(c, "solar_unit_id")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid solar_unit_id", nil)
		return repository.ListAnomaliesParams{}, false
	}
	params := repository.ListAnomaliesParams{
		Limit:            limit,
		Offset:           offset,
		SolarUnitID:      unitID,
		Type:             upperQueryPtr(c, "type"),
		Severity:         upperQueryPtr(c, "severity"),
		ResolutionStatus: upperQueryPtr(c, "resolution_status"),
	}
	if params.Type != nil && !models.ValidAnomalyType(*params.Type) {
		Error(c, http.StatusBadRequest, "invalid type", nil)
		return params, false
	}
	if params.Severity != nil && !models.ValidSeverity(*params.Severity) {
		Error(c, http.StatusBadRequest, "invalid severity", nil)
		return params, false
	}
	if params.ResolutionStatus != nil && !models.ValidResolutionStatus(*params.ResolutionStatus) {
		Error(c, http.StatusBadRequest, "invalid resolution_status", nil)
		return params, false
	}
	return params, true
}
