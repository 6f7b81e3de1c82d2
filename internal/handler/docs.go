package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const routesMarkdown = `# Solar Fleet Monitor

Anomaly detection and billing for a fleet of solar generation units.

## Auth

All /api/* routes expect a Bearer token unless server.auth_disabled is set.
Health endpoints are public.

## Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET /api/anomalies
- GET /api/anomalies/stats
- GET /api/anomalies/:id
- PATCH /api/anomalies/:id
- POST /api/anomalies/trigger-detection
- GET /api/anomalies/detection-runs/latest
- GET /api/solar-units
- POST /api/solar-units
- GET /api/solar-units/:id
- PUT /api/solar-units/:id
- DELETE /api/solar-units/:id
- GET /api/energy-generation-records/solar-unit/:id
- POST /api/energy-generation-records
- GET /api/invoices
- GET /api/invoices/:id
- POST /api/admin/invoices/generate
- GET /api/system-settings/switches
- PUT /api/system-settings/switches/:name

## Detection rules

Evaluated per reading in timestamp order, hours in UTC:

- NIGHTTIME_GENERATION (WARNING): energy above the night threshold in hours 0-5 or 19-23.
- ZERO_GENERATION_PEAK (CRITICAL): energy below the zero threshold in hours 10-14.
- SUDDEN_DROP (WARNING): daytime drop of more than half from a daytime previous reading above the floor.
- INVERTER_CLIPPING (INFO): two consecutive readings exactly at the capacity cap.

The first three are exclusive in that order; clipping is checked independently.
`

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, routesMarkdown)
	})
}
