package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"solarwatch/internal/service"
)

type SystemSettingsHandler struct {
	Settings *service.SystemSettingsService
}

func (h *SystemSettingsHandler) Register(r *gin.Engine) {
	g := r.Group("/api/system-settings")
	g.GET("/switches", h.listSwitches)
	g.PUT("/switches/:name", h.putSwitch)
}

// @Summary List feature switches
// @Tags system-settings
// @Success 200 {object} map[string]any
// @Router /api/system-settings/switches [get]
func (h *SystemSettingsHandler) listSwitches(c *gin.Context) {
	if h.Settings == nil {
		Error(c, http.StatusInternalServerError, "settings service unavailable", nil)
		return
	}
	items, err := h.Settings.ListSwitches(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if items == nil {
		items = []service.FeatureSwitch{}
	}
	Ok(c, items, nil)
}

type putSwitchRequest struct {
	Enabled *bool `json:"enabled"`
}

// @Summary Turn a feature switch on or off
// @Tags system-settings
// @Param name path string true "anomaly_detection|invoice_generation"
// @Param body body putSwitchRequest true "state"
// @Success 200 {object} map[string]any
// @Router /api/system-settings/switches/{name} [put]
func (h *SystemSettingsHandler) putSwitch(c *gin.Context) {
	if h.Settings == nil {
		Error(c, http.StatusInternalServerError, "settings service unavailable", nil)
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		Error(c, http.StatusBadRequest, "invalid switch name", nil)
		return
	}
	var req putSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	key := service.FeatureKey(name)
	if _, known := service.DefaultFeatureSwitches()[key]; !known {
		Error(c, http.StatusNotFound, "unknown switch", nil)
		return
	}
	if err := h.Settings.SetEnabled(c.Request.Context(), key, *req.Enabled); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"name":    strings.TrimPrefix(key, "feature."),
		"key":     key,
		"enabled": *req.Enabled,
	}, nil)
}
